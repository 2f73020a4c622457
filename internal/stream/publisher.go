package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/events"
	"github.com/charleschow/matchday/internal/telemetry"
)

// Speed is the inter-tick pacing.
type Speed string

const (
	SpeedRealtime Speed = "realtime"
	SpeedFast     Speed = "fast"
	SpeedInstant  Speed = "instant"
)

func ParseSpeed(s string, fallback Speed) Speed {
	switch Speed(s) {
	case SpeedRealtime, SpeedFast, SpeedInstant:
		return Speed(s)
	default:
		return fallback
	}
}

// Broadcaster mirrors frames to spectators; the WebSocket fan-out hub
// implements it. Nil-safe via the publisher.
type Broadcaster interface {
	Broadcast(matchID, frameName string, data json.RawMessage)
}

// Publisher drives one prepared simulation over a long-lived SSE response.
// It reads the tick channel lazily, one tick at a time: the engine computes
// the next tick only after the previous frame is flushed.
type Publisher struct {
	tuning config.Tuning
	fanout Broadcaster
}

func NewPublisher(tuning config.Tuning, fanout Broadcaster) *Publisher {
	return &Publisher{tuning: tuning, fanout: fanout}
}

func (p *Publisher) delay(speed Speed) time.Duration {
	switch speed {
	case SpeedRealtime:
		return p.tuning.RealtimeDelay()
	case SpeedFast:
		return p.tuning.FastDelay()
	default:
		return 0
	}
}

// Stream writes the frame sequence for one match:
// lineup, minute*, derived goal/card/substitution frames, half_time,
// full_time — or a terminal error frame. Returns whether full time was
// reached (the caller persists results only then).
func (p *Publisher) Stream(ctx context.Context, w http.ResponseWriter, sim *engine.Simulation, speed Speed) (completed bool, err error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return false, errors.New("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	telemetry.Metrics.StreamClients.Inc()
	defer telemetry.Metrics.StreamClients.Dec()

	// The whole-simulation wall clock budget only matters when pacing.
	if speed != SpeedInstant {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.tuning.StreamBudget())
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	matchID := sim.State().MatchID
	writer := &frameWriter{w: w, flusher: flusher, fanout: p.fanout, matchID: matchID}

	if err := writer.write(FrameLineup, BuildLineupFrame(sim)); err != nil {
		return false, err
	}

	pause := p.delay(speed)
	ticks := sim.Run(ctx)
	for res := range ticks {
		if res.Err != nil {
			code := "internal"
			var inv *engine.InvariantError
			if errors.As(res.Err, &inv) {
				code = "invariant"
			}
			_ = writer.write(FrameError, ErrorFrame{Message: res.Err.Error(), Code: code})
			return false, res.Err
		}

		tick := res.Tick
		if err := writer.write(FrameMinute, tick); err != nil {
			cancel() // client went away; stop the producer at the tick boundary
			return false, err
		}
		for _, nf := range ConvenienceFrames(tick) {
			if err := writer.write(nf.Name, nf.Data); err != nil {
				cancel()
				return false, err
			}
		}
		if tick.Phase == events.PhaseHalfTime {
			if err := writer.write(FrameHalfTime, PhaseFrame{Score: tick.Score, Stats: tick.Stats}); err != nil {
				cancel()
				return false, err
			}
		}
		if tick.Phase == events.PhaseFullTime {
			if err := writer.write(FrameFullTime, PhaseFrame{Score: tick.Score, Stats: tick.Stats}); err != nil {
				cancel()
				return false, err
			}
			return true, nil
		}

		if pause > 0 {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}
	}
	// channel closed without a full_time tick: cancelled upstream
	return false, ctx.Err()
}

// Collect runs the simulation to completion at instant pacing and returns
// the single batch document.
func (p *Publisher) Collect(ctx context.Context, sim *engine.Simulation) (MatchDocument, error) {
	doc := MatchDocument{
		MatchID: sim.State().MatchID,
		Lineups: BuildLineupFrame(sim),
	}
	for res := range sim.Run(ctx) {
		if res.Err != nil {
			return MatchDocument{}, res.Err
		}
		doc.Minutes = append(doc.Minutes, res.Tick)
	}
	if len(doc.Minutes) == 0 {
		return MatchDocument{}, ctx.Err()
	}
	final := doc.Minutes[len(doc.Minutes)-1]
	if final.Phase != events.PhaseFullTime {
		return MatchDocument{}, errors.New("simulation ended before full time")
	}
	doc.FinalScore = final.Score
	doc.FullTimeStats = final.Stats
	return doc, nil
}

// frameWriter serializes SSE frames and mirrors them to the fan-out hub.
// Frames are flushed immediately; buffering would break pacing.
type frameWriter struct {
	w       io.Writer
	flusher http.Flusher
	fanout  Broadcaster
	matchID string
}

func (fw *frameWriter) write(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", name, err)
	}

	started := time.Now()
	if _, err := fmt.Fprintf(fw.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("write %s frame: %w", name, err)
	}
	fw.flusher.Flush()
	telemetry.Metrics.StreamWriteLatency.Record(time.Since(started))

	if fw.fanout != nil {
		fw.fanout.Broadcast(fw.matchID, name, data)
	}
	return nil
}
