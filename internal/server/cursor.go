package server

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Feed cursors are opaque to clients: base64url over "<created_at>:<id>"
// of the last entry on the previous page.
func encodeCursor(createdAt int64, id string) string {
	raw := strconv.FormatInt(createdAt, 10) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (int64, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, "", badRequestCode(fmt.Errorf("invalid cursor"), ErrCodeInvalidCursor)
	}
	createdAtRaw, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return 0, "", badRequestCode(fmt.Errorf("invalid cursor"), ErrCodeInvalidCursor)
	}
	createdAt, err := strconv.ParseInt(createdAtRaw, 10, 64)
	if err != nil || !validateID(id) {
		return 0, "", badRequestCode(fmt.Errorf("invalid cursor"), ErrCodeInvalidCursor)
	}
	return createdAt, id, nil
}
