package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/events"
	"github.com/charleschow/matchday/internal/fixtures"
)

type rawFrame struct {
	name string
	data string
}

func parseFrames(t *testing.T, body string) []rawFrame {
	t.Helper()
	var out []rawFrame
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		lines := strings.SplitN(block, "\n", 2)
		require.Len(t, lines, 2, "frame block %q", block)
		require.True(t, strings.HasPrefix(lines[0], "event: "), "frame block %q", block)
		require.True(t, strings.HasPrefix(lines[1], "data: "), "frame block %q", block)
		out = append(out, rawFrame{
			name: strings.TrimPrefix(lines[0], "event: "),
			data: strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return out
}

func prepareSim(t *testing.T, seed uint64) *engine.Simulation {
	t.Helper()
	home, away := fixtures.Teams()
	sim, err := engine.Prepare(engine.MatchInput{
		MatchID:    fmt.Sprintf("stream-%d", seed),
		Home:       engine.SideInput{Team: home, Formation: domain.Formation433()},
		Away:       engine.SideInput{Team: away, Formation: domain.Formation442()},
		Seed:       seed,
		AutoLineup: true,
	}, config.DefaultTuning())
	require.NoError(t, err)
	return sim
}

func streamFrames(t *testing.T, seed uint64) []rawFrame {
	t.Helper()
	pub := NewPublisher(config.DefaultTuning(), nil)
	rec := httptest.NewRecorder()

	completed, err := pub.Stream(context.Background(), rec, prepareSim(t, seed), SpeedInstant)
	require.NoError(t, err)
	require.True(t, completed)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	return parseFrames(t, rec.Body.String())
}

func TestStreamFrameOrder(t *testing.T) {
	frames := streamFrames(t, 42)
	require.NotEmpty(t, frames)

	assert.Equal(t, FrameLineup, frames[0].name, "stream opens with the lineup frame")
	assert.Equal(t, FrameFullTime, frames[len(frames)-1].name, "stream ends with the full_time frame")

	var minutes []int
	sawHalfTime := false
	for i, f := range frames {
		switch f.name {
		case FrameMinute:
			var tick events.Tick
			require.NoError(t, json.Unmarshal([]byte(f.data), &tick))
			minutes = append(minutes, tick.Minute)
		case FrameHalfTime:
			sawHalfTime = true
			require.Greater(t, i, 0)
			// the half_time frame follows minute 45 and its convenience frames
			var tick events.Tick
			found := false
			for j := i - 1; j > 0; j-- {
				if frames[j].name == FrameMinute {
					require.NoError(t, json.Unmarshal([]byte(frames[j].data), &tick))
					found = true
					break
				}
			}
			require.True(t, found)
			assert.Equal(t, 45, tick.Minute)
		case FrameError:
			t.Fatalf("unexpected error frame: %s", f.data)
		}
	}
	assert.True(t, sawHalfTime)

	for i, m := range minutes {
		assert.Equal(t, i+1, m, "minute frames must be consecutive")
	}
	last := minutes[len(minutes)-1]
	assert.GreaterOrEqual(t, last, 90)
	assert.LessOrEqual(t, last, 95)
}

func TestStreamConvenienceFramesFollowTheirMinute(t *testing.T) {
	frames := streamFrames(t, 42)

	var lastTick events.Tick
	expected := 0
	for _, f := range frames {
		switch f.name {
		case FrameMinute:
			assert.Zero(t, expected, "minute %d short %d convenience frames", lastTick.Minute, expected)
			require.NoError(t, json.Unmarshal([]byte(f.data), &lastTick))
			expected = len(ConvenienceFrames(lastTick))
		case FrameGoal, FrameCard, FrameSubstitution:
			require.Greater(t, expected, 0, "stray %s frame after minute %d", f.name, lastTick.Minute)
			expected--
		}
	}
	assert.Zero(t, expected)
}

func TestStreamMatchesCollect(t *testing.T) {
	frames := streamFrames(t, 7)
	pub := NewPublisher(config.DefaultTuning(), nil)
	doc, err := pub.Collect(context.Background(), prepareSim(t, 7))
	require.NoError(t, err)

	var streamed []events.Tick
	for _, f := range frames {
		if f.name == FrameMinute {
			var tick events.Tick
			require.NoError(t, json.Unmarshal([]byte(f.data), &tick))
			streamed = append(streamed, tick)
		}
	}

	want, err := json.Marshal(doc.Minutes)
	require.NoError(t, err)
	got, err := json.Marshal(streamed)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got), "instant batch and stream must agree tick for tick")

	assert.Equal(t, doc.FinalScore, streamed[len(streamed)-1].Score)
}

func TestCollectDocumentShape(t *testing.T) {
	pub := NewPublisher(config.DefaultTuning(), nil)
	doc, err := pub.Collect(context.Background(), prepareSim(t, 5))
	require.NoError(t, err)

	assert.Equal(t, "stream-5", doc.MatchID)
	assert.Len(t, doc.Lineups.Home.Starting, 11)
	assert.Len(t, doc.Lineups.Away.Starting, 11)
	require.NotEmpty(t, doc.Minutes)
	assert.Equal(t, events.PhaseFullTime, doc.Minutes[len(doc.Minutes)-1].Phase)
	assert.Equal(t, doc.Minutes[len(doc.Minutes)-1].Stats, doc.FullTimeStats)
}

func TestParseSpeedFallsBack(t *testing.T) {
	assert.Equal(t, SpeedFast, ParseSpeed("fast", SpeedRealtime))
	assert.Equal(t, SpeedInstant, ParseSpeed("instant", SpeedRealtime))
	assert.Equal(t, SpeedRealtime, ParseSpeed("", SpeedRealtime))
	assert.Equal(t, SpeedRealtime, ParseSpeed("warp", SpeedRealtime))
}
