package repository

import (
	"encoding/base64"
	"time"
)

const (
	cursorTimeFormat = time.RFC3339Nano

	MaxPageSize = 100
)

// DecodeCursor will decode cursor from user for the feed queries
func DecodeCursor(encoded string) (time.Time, error) {
	byt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, err
	}

	return time.Parse(cursorTimeFormat, string(byt))
}

// EncodeCursor will encode cursor from the created_at of the last item
func EncodeCursor(t time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(t.Format(cursorTimeFormat)))
}

// PageVerify clamps a requested page size, 0 stays 0 (no limit)
func PageVerify(num int64) int64 {
	switch {
	case num <= 0:
		return 0
	case num > MaxPageSize:
		return MaxPageSize
	default:
		return num
	}
}
