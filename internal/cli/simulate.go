package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/events"
	"github.com/charleschow/matchday/internal/fixtures"
	"github.com/charleschow/matchday/internal/store"
)

var (
	simSeed       uint64
	simCommentary bool
	simSave       bool
	simVerbose    bool
)

// simulateCmd runs one match between the demo squads at instant pacing.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one match and print the final report",
	Long: `Run a full match between the built-in demo squads at instant pacing.
The same seed always reproduces the same match.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "RNG seed (0 picks one from the clock)")
	simulateCmd.Flags().BoolVar(&simCommentary, "commentary", false, "print the per-minute commentary line for eventful minutes")
	simulateCmd.Flags().BoolVar(&simSave, "save", false, "persist the result to the SQLite database")
	simulateCmd.Flags().BoolVar(&simVerbose, "verbose", false, "print every event as it happens")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	tuning, err := config.LoadTuning(tuningPath)
	if err != nil {
		return err
	}

	home, away := fixtures.Teams()
	input := engine.MatchInput{
		MatchID:    uuid.NewString(),
		Home:       engine.SideInput{Team: home, Formation: domain.Formation433()},
		Away:       engine.SideInput{Team: away, Formation: domain.Formation442()},
		Seed:       simSeed,
		Commentary: simCommentary,
		AutoLineup: true,
	}

	sim, err := engine.Prepare(input, tuning)
	if err != nil {
		return fmt.Errorf("prepare match: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%s vs %s (seed %d)\n\n", home.Name, away.Name, simSeed)

	for res := range sim.Run(context.Background()) {
		if res.Err != nil {
			return fmt.Errorf("simulation failed: %w", res.Err)
		}
		printTick(res.Tick)
	}

	st := sim.State()
	printReport(st)

	if simSave {
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		err = db.Save(store.MatchResult{
			MatchID:    st.MatchID,
			PlayedAt:   time.Now().UTC(),
			HomeTeam:   st.Home.Team.Name,
			AwayTeam:   st.Away.Team.Name,
			FinalScore: st.Score,
			Stats:      st.Stats,
			Goals:      st.Goals,
		})
		if err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nSaved as %s\n", st.MatchID)
	}
	return nil
}

func printTick(tick events.Tick) {
	if simCommentary && tick.Commentary != "" && len(tick.Events) > 0 {
		fmt.Fprintf(os.Stdout, "%2d' %s\n", tick.Minute, tick.Commentary)
	}
	if !simVerbose {
		return
	}
	for _, ev := range tick.Events {
		fmt.Fprintf(os.Stdout, "%2d' [%s] %s: %s\n", tick.Minute, ev.Team, ev.Type, ev.Description)
	}
}

func printReport(st *engine.MatchState) {
	fmt.Fprintf(os.Stdout, "\nFull time: %s %d - %d %s\n\n",
		st.Home.Team.Name, st.Score.Home, st.Score.Away, st.Away.Team.Name)

	if len(st.Goals) > 0 {
		gt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		gt.Header("MIN", "TEAM", "SCORER", "ASSIST")
		for _, g := range st.Goals {
			gt.Append(
				fmt.Sprintf("%d'", g.Minute),
				string(g.Event.Team),
				g.Event.PrimaryPlayerName,
				g.Event.SecondaryPlayer,
			)
		}
		gt.Render()
		fmt.Fprintln(os.Stdout)
	}

	total := st.Stats.Home.PossessionTicks + st.Stats.Away.PossessionTicks
	possPct := func(ticks int) string {
		if total == 0 {
			return "-"
		}
		return fmt.Sprintf("%.0f%%", 100.0*float64(ticks)/float64(total))
	}

	stt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	stt.Header("", st.Home.Team.Name, st.Away.Team.Name)
	rows := []struct {
		label      string
		home, away string
	}{
		{"Possession", possPct(st.Stats.Home.PossessionTicks), possPct(st.Stats.Away.PossessionTicks)},
		{"Shots", itoa(st.Stats.Home.Shots), itoa(st.Stats.Away.Shots)},
		{"On target", itoa(st.Stats.Home.ShotsOnTarget), itoa(st.Stats.Away.ShotsOnTarget)},
		{"Corners", itoa(st.Stats.Home.Corners), itoa(st.Stats.Away.Corners)},
		{"Fouls", itoa(st.Stats.Home.Fouls), itoa(st.Stats.Away.Fouls)},
		{"Offsides", itoa(st.Stats.Home.Offsides), itoa(st.Stats.Away.Offsides)},
		{"Yellow cards", itoa(st.Stats.Home.YellowCards), itoa(st.Stats.Away.YellowCards)},
		{"Red cards", itoa(st.Stats.Home.RedCards), itoa(st.Stats.Away.RedCards)},
		{"Tackles", itoa(st.Stats.Home.Tackles), itoa(st.Stats.Away.Tackles)},
	}
	for _, r := range rows {
		stt.Append(r.label, r.home, r.away)
	}
	stt.Render()
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
