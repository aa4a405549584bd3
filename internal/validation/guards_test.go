package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	content := NewContentGuard("pyramid scheme")

	tests := []struct {
		name   string
		input  string
		guards []Guard
		reason Reason
	}{
		{"title ok", "Go Developer", []Guard{MinLength(3)}, ""},
		{"title short", "Go", []Guard{MinLength(3)}, ReasonTooShort},
		{"runes not bytes", "Шеф", []Guard{MinLength(3)}, ""},
		{"trimmed before length", "  ab  ", []Guard{MinLength(3)}, ReasonTooShort},
		{"too long", "abcdef", []Guard{MaxLength(5)}, ReasonTooLong},
		{"empty", "   ", []Guard{NotEmpty(), MinLength(1)}, ReasonEmpty},
		{"banned word", "Работа в Казино", []Guard{content.Guard()}, ReasonDisallowed},
		{"banned phrase", "a Pyramid  Scheme? no, pyramid scheme", []Guard{content.Guard()}, ReasonDisallowed},
		{"substring is not a word", "casinos nearby", []Guard{content.Guard()}, ""},
		{"salary digits", "2000$", []Guard{ContainsDigit()}, ""},
		{"salary no digits", "many", []Guard{ContainsDigit()}, ReasonFormat},
		{"first failure wins", "x", []Guard{MinLength(3), ContainsDigit()}, ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.input, tt.guards...)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			r, ok := AsRejection(err)
			require.True(t, ok, "expected rejection, got %v", err)
			assert.Equal(t, tt.reason, r.Reason)
		})
	}
}

func TestCheck_Idempotent(t *testing.T) {
	guards := []Guard{MinLength(10)}
	first := Check("short", guards...)
	second := Check("short", guards...)
	assert.Equal(t, first, second)
}

func TestMatchChoice(t *testing.T) {
	options := []Option{
		{Key: "gender:male", Label: "👨 Мужской"},
		{Key: "gender:female", Label: "👩 Женский"},
	}

	key, err := MatchChoice("gender:female", options)
	require.NoError(t, err)
	assert.Equal(t, "gender:female", key)

	key, err = MatchChoice("  👨 мужской ", options)
	require.NoError(t, err)
	assert.Equal(t, "gender:male", key)

	_, err = MatchChoice("anything", options)
	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnknownOption, r.Reason)
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Klingon", " kLINGON"))
	assert.False(t, EqualFold("Elvish", "Klingon"))
}
