package dbx

import (
	"strconv"
	"time"
)

// ToMillis encodes t for INTEGER timestamp columns (SQLite).
func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromMillis decodes an INTEGER timestamp column.
func FromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Placeholders returns "$start, $start+1, ..." (n items) for PostgreSQL IN lists.
func Placeholders(start, n int) string {
	b := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '$')
		b = strconv.AppendInt(b, int64(start+i), 10)
	}
	return string(b)
}

// QuestionMarks returns "?, ?, ..." (n items) for SQLite IN lists.
func QuestionMarks(n int) string {
	b := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '?')
	}
	return string(b)
}
