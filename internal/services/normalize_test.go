package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercased", "Чекан Маржаны", "чекан маржаны"},
		{"emoji stripped", "🔪 Чекан Маржаны", "чекан маржаны"},
		{"punctuation stripped", "«Чекан Маржаны»!", "чекан маржаны"},
		{"grade bracket stripped", "Чекан Маржаны [III+]", "чекан маржаны"},
		{"event bracket stripped", "Тыква [Ивент]", "тыква"},
		{"latin kept", "T.Rex Crusher Armor", "trex crusher armor"},
		{"digits and percent kept", "Зелье 50%", "зелье 50%"},
		{"whitespace collapsed", "Чекан   Маржаны  ", "чекан маржаны"},
		{"replacement char dropped", "Чекан� Маржаны", "чекан маржаны"},
		{"empty from pure decoration", "✨✨✨", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{"🔪 Чекан Маржаны [III+]", "T.Rex Crusher Armor", "Зелье 50%"}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once))
	}
}
