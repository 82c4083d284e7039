package utils

import "time"

// FormatDate formata a data em UTC no padrão YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
