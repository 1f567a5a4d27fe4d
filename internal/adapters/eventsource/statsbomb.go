package eventsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/xgmap/internal/domain/geometry"
)

// Shot is a shot location read from a StatsBomb 360 frame.
type Shot struct {
	EventUUID string                 `json:"event_uuid"`
	Position  geometry.FieldPosition `json:"position"`
}

type frame struct {
	EventUUID   string   `json:"event_uuid"`
	FreezeFrame []player `json:"freeze_frame"`
}

type player struct {
	Location []float64 `json:"location"`
	Actor    bool      `json:"actor"`
	Teammate bool      `json:"teammate"`
	Keeper   bool      `json:"keeper"`
}

// Parse reads a JSON array of 360 frames and returns the position of the
// acting player in each. Entries that are not objects, or that have no actor
// with a two-value location, are skipped.
func Parse(r io.Reader) ([]Shot, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	shots := make([]Shot, 0, len(raw))
	for _, msg := range raw {
		if !isObject(msg) {
			continue
		}
		var f frame
		if err := json.Unmarshal(msg, &f); err != nil {
			continue
		}
		if pos, ok := actorPosition(f.FreezeFrame); ok {
			shots = append(shots, Shot{EventUUID: f.EventUUID, Position: pos})
		}
	}
	return shots, nil
}

func actorPosition(players []player) (geometry.FieldPosition, bool) {
	for _, p := range players {
		if !p.Actor {
			continue
		}
		if len(p.Location) < 2 {
			return geometry.FieldPosition{}, false
		}
		return geometry.FieldPosition{X: p.Location[0], Y: p.Location[1]}, true
	}
	return geometry.FieldPosition{}, false
}

func isObject(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Positions extracts the positions of shots in order.
func Positions(shots []Shot) []geometry.FieldPosition {
	out := make([]geometry.FieldPosition, len(shots))
	for i, s := range shots {
		out[i] = s.Position
	}
	return out
}
