// internal/services/normalize.go
package services

import (
	"regexp"
	"strings"

	"github.com/tgmarket/market-backend/internal/utils"
)

var (
	// Decorations that must not affect identity: event brackets and grade
	// tags. Grade is matched separately.
	reNormalizeBrackets = regexp.MustCompile(`(?i)\[\s*ивент\s*\]|\[\s*[ivx+]+\s*\]`)

	// Allow-list: cyrillic, latin, digits, percent, plus, dash, space.
	// Everything else (emoji, punctuation, quotes) is identity noise.
	reNormalizeDisallowed = regexp.MustCompile(`[^\x{0400}-\x{04FF}0-9a-zA-Z%+\- ]`)

	reNormalizeSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeTitle reduces a raw product name to its matching identity:
// cleaned of invalid bytes, stripped of decorations, lowercased, whitespace
// collapsed. Idempotent.
func NormalizeTitle(title string) string {
	t := utils.CleanUTF8(title)
	t = reNormalizeBrackets.ReplaceAllString(t, " ")
	t = reNormalizeDisallowed.ReplaceAllString(t, "")
	t = reNormalizeSpaces.ReplaceAllString(t, " ")
	return strings.ToLower(strings.TrimSpace(t))
}
