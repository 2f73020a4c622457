package fanout

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format for frames mirrored over the spectator
// WebSocket. Event and Data match the SSE frame exactly.
type Envelope struct {
	Event     string          `json:"event"`
	MatchID   string          `json:"match_id"`
	Timestamp time.Time       `json:"ts"`
	Data      json.RawMessage `json:"data"`
}

// MarshalFrame serializes one mirrored frame.
func MarshalFrame(matchID, event string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(Envelope{
		Event:     event,
		MatchID:   matchID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}
