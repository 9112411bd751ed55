// internal/utils/text.go
package utils

import "strings"

// CleanUTF8 drops invalid byte sequences and replacement characters left
// over from the chat export, then trims surrounding whitespace. Messages
// arrive double-encoded often enough that this runs before every parse.
func CleanUTF8(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "�", "")
	return strings.TrimSpace(s)
}
