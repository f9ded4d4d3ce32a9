package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme", "acme"},
		{"two words", "Acme Co", "acme-co"},
		{"punctuation run", "Acme & Co!!", "acme-co"},
		{"leading and trailing symbols", "--Acme Co--", "acme-co"},
		{"digits kept", "Studio 54", "studio-54"},
		{"already slugged", "acme-co", "acme-co"},
		{"arabic only collapses away", "شركة", ""},
		{"mixed arabic and latin", "شركة Acme", "acme"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
