package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase passthrough", "bonjour", "bonjour"},
		{"uppercase", "BONJOUR", "bonjour"},
		{"accents stripped", "ça va déjà", "ca va deja"},
		{"cedilla", "français", "francais"},
		{"media extension stripped", "bonjour.mp4", "bonjour"},
		{"uppercase extension stripped", "BONJOUR.MP4", "bonjour"},
		{"underscores to spaces", "salut_ca_va", "salut ca va"},
		{"hyphens to spaces", "peut-etre", "peut etre"},
		{"filename form", "salut_ça_va.mp4", "salut ca va"},
		{"punctuation removed", "j'ai mal!", "jai mal"},
		{"digits kept", "salle 12", "salle 12"},
		{"whitespace collapsed", "  deux   mots  ", "deux mots"},
		{"extension only at end", "mp4 player.mp4", "mp4 player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Bonjour",
		"salut_ça_va.mp4",
		"J'AI MAL",
		"très-élevé",
		"  plusieurs   espaces  ",
	}

	for _, input := range inputs {
		once := Text(input)
		assert.Equal(t, once, Text(once), "Text should be idempotent for %q", input)
	}
}
