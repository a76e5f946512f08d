package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel_finder/internal/textnorm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"vietnamese diacritics", "Khách Sạn ABC", "khach san abc"},
		{"stroke d", "Đà Lạt Hotel", "da lat hotel"},
		{"punctuation runs", "  Rex -- Hotel, Saigon!! ", "rex hotel saigon"},
		{"digits kept", "Quận 1 / District-1", "quan 1 district 1"},
		{"blank", "   \t\n", ""},
		{"only symbols", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Normalize(tt.in))
		})
	}
}

func TestNormalize_EquivalentSpellings(t *testing.T) {
	assert.Equal(t, textnorm.Normalize("Khách Sạn ABC"), textnorm.Normalize("khach san abc"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Khách Sạn ABC", "Hôtel Le Méridien", "  a  b  ", "", "Đường 3/2", "ÀÁÂÃ"}
	for _, in := range inputs {
		once := textnorm.Normalize(in)
		assert.Equal(t, once, textnorm.Normalize(once), "input %q", in)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, textnorm.Contains("Khách sạn Quận 1", "quan 1"))
	assert.False(t, textnorm.Contains("Khách sạn Quận 1", "   "))
	assert.False(t, textnorm.Contains("Rex", "Caravelle"))
}
