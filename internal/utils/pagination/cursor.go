package pagination

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"

	apperr "github.com/pmoroz/filmrate/internal/errors"
)

// Cursor is the opaque pagination state we encode/decode.
// EventID + CreatedUnix (in millis) establish a stable cursor over a
// feed ordered by (created_at DESC, event_id DESC).
type Cursor struct {
	EventID     uint64 `json:"event_id"`
	CreatedUnix int64  `json:"created_unix,omitempty"`
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, apperr.InvalidArgument("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, apperr.InvalidArgument("invalid pagination token")
	}
	return c, nil
}
