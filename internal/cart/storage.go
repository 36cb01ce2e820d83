package cart

import (
	"context"
	"encoding/json"
)

// Storage persists one cart blob under one key. Implementations only see
// serialized snapshots, never the live cart; the Store treats every failure
// as recoverable (load errors become an empty cart, save errors leave the
// in-memory cart authoritative).
type Storage interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
	Ping(ctx context.Context) error
}

// decodeBlob parses a persisted blob. Anything that is not a JSON array of
// lines decodes to an empty cart; corruption must never escape a load.
func decodeBlob(raw []byte) []Line {
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil
	}
	return lines
}

func encodeBlob(lines []Line) []byte {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
