package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/charleschow/matchday/internal/store"
)

var inspectLimit int

// inspectCmd lists stored results, or shows one match in detail.
var inspectCmd = &cobra.Command{
	Use:   "inspect [match-id]",
	Short: "List stored results or show one match",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 20, "maximum number of results to list")
}

func runInspect(cmd *cobra.Command, args []string) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return inspectOne(db, args[0])
	}
	return inspectList(db)
}

func inspectList(db *store.Store) error {
	results, err := db.List(inspectLimit)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No results stored yet. Run 'matchday simulate --save' to add one.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("MATCH ID", "PLAYED", "HOME", "AWAY", "SCORE")
	for _, r := range results {
		table.Append(
			r.MatchID,
			r.PlayedAt.Format("2006-01-02 15:04"),
			r.HomeTeam,
			r.AwayTeam,
			fmt.Sprintf("%d-%d", r.FinalScore.Home, r.FinalScore.Away),
		)
	}
	table.Render()
	return nil
}

func inspectOne(db *store.Store, matchID string) error {
	r, err := db.Get(matchID)
	if err != nil {
		return fmt.Errorf("get result: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%s %d - %d %s  (%s)\n\n",
		r.HomeTeam, r.FinalScore.Home, r.FinalScore.Away, r.AwayTeam,
		r.PlayedAt.Format("2006-01-02 15:04"))

	if len(r.Goals) == 0 {
		fmt.Fprintln(os.Stdout, "No goals.")
		return nil
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("MIN", "TEAM", "SCORER", "ASSIST")
	for _, g := range r.Goals {
		table.Append(
			fmt.Sprintf("%d'", g.Minute),
			string(g.Event.Team),
			g.Event.PrimaryPlayerName,
			g.Event.SecondaryPlayer,
		)
	}
	table.Render()
	return nil
}
