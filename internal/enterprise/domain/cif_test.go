package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{name: "known valid digit control", candidate: "A58818501", want: true},
		{name: "lowercase input", candidate: "a58818501", want: true},
		{name: "wrong control digit", candidate: "B12345678", want: false},
		{name: "correct control digit", candidate: "B12345674", want: true},
		{name: "letter control", candidate: "Q5881850A", want: true},
		{name: "letter control lowercase", candidate: "p1234567d", want: true},
		{name: "zero sum maps to J", candidate: "S0000000J", want: true},
		{name: "digit given where letter expected", candidate: "Q58818501", want: false},
		{name: "letter given where digit expected", candidate: "A5881850A", want: false},
		{name: "unknown letter falls back to digit", candidate: "G58818501", want: true},
		{name: "unknown letter with letter control", candidate: "G5881850A", want: false},
		{name: "non letter first character", candidate: "158818501", want: false},
		{name: "symbol first character", candidate: "#58818501", want: false},
		{name: "non digit in block", candidate: "A5881X501", want: false},
		{name: "multibyte rune in block", candidate: "A5881ñ501", want: false},
		{name: "empty", candidate: "", want: false},
		{name: "too short", candidate: "A5881850", want: false},
		{name: "too long", candidate: "A588185011", want: false},
		{name: "surrounding whitespace", candidate: " A58818501", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.candidate))
		})
	}
}

func TestValidate_WrongLengthAlwaysFalse(t *testing.T) {
	for n := 0; n <= 20; n++ {
		if n == CIFLength {
			continue
		}
		candidate := "A" + strings.Repeat("0", max(n-1, 0))
		if n == 0 {
			candidate = ""
		}
		assert.False(t, Validate(candidate), "length %d", n)
	}
}

func TestValidate_CaseInsensitive(t *testing.T) {
	for _, c := range []string{"A58818501", "Q5881850A", "B12345678", "k0000000j"} {
		assert.Equal(t, Validate(strings.ToUpper(c)), Validate(strings.ToLower(c)), c)
	}
}

func TestControlFor_RoundTrip(t *testing.T) {
	blocks := []string{"0000000", "5881850", "1234567", "9999999", "1010101", "7654321"}

	for _, letter := range []rune("ABEH") {
		for _, block := range blocks {
			control, ok := ControlFor(letter, block)
			require.True(t, ok)
			assert.True(t, control >= '0' && control <= '9')
			assert.True(t, Validate(fmt.Sprintf("%c%s%c", letter, block, control)))
		}
	}

	for _, letter := range []rune("KPQS") {
		for _, block := range blocks {
			control, ok := ControlFor(letter, block)
			require.True(t, ok)
			assert.Contains(t, "JABCDEFGHI", string(control))
			assert.True(t, Validate(fmt.Sprintf("%c%s%c", letter, block, control)))
		}
	}
}

func TestControlFor_PadsShortBlocks(t *testing.T) {
	short, ok := ControlFor('A', "12345")
	require.True(t, ok)
	padded, ok := ControlFor('A', "0012345")
	require.True(t, ok)
	assert.Equal(t, padded, short)

	_, ok = ControlFor('A', "12345678")
	assert.False(t, ok)
}

func TestControlKindFor(t *testing.T) {
	assert.Equal(t, ControlDigit, ControlKindFor('A'))
	assert.Equal(t, ControlLetter, ControlKindFor('S'))
	assert.Equal(t, ControlDigit, ControlKindFor('W'))
	assert.Equal(t, "letter", ControlLetter.String())
}

func TestComplete(t *testing.T) {
	t.Run("digit control", func(t *testing.T) {
		c, err := Complete("a5881850")
		require.NoError(t, err)
		assert.Equal(t, "A58818501", c.String())
	})

	t.Run("letter control", func(t *testing.T) {
		c, err := Complete("P1234567")
		require.NoError(t, err)
		assert.Equal(t, "P1234567D", c.String())
	})

	t.Run("rejects bad prefixes", func(t *testing.T) {
		for _, p := range []string{"", "A123", "158818501", "15881850", "A58X1850"} {
			_, err := Complete(p)
			assert.True(t, errors.Is(err, ErrInvalidIdentifier), p)
		}
	})
}

func TestNewCIF(t *testing.T) {
	t.Run("normalizes to uppercase", func(t *testing.T) {
		c, err := NewCIF("q5881850a")
		require.NoError(t, err)
		assert.Equal(t, "Q5881850A", c.String())
		assert.Equal(t, 'Q', c.Letter())
		assert.Equal(t, "5881850", c.NumberBlock())
		assert.Equal(t, 'A', c.Control())
		assert.False(t, c.IsZero())
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		_, err := NewCIF("B12345678")
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("zero value", func(t *testing.T) {
		var c CIF
		assert.True(t, c.IsZero())
		assert.Equal(t, rune(0), c.Letter())
		assert.Equal(t, "", c.NumberBlock())
	})

	t.Run("must panics on invalid", func(t *testing.T) {
		assert.Panics(t, func() { MustCIF("B12345678") })
		assert.NotPanics(t, func() { MustCIF("A58818501") })
	})
}

func FuzzValidate(f *testing.F) {
	for _, seed := range []string{"A58818501", "B12345678", "", "ñññññññññ", "Q5881850A"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got := Validate(s)
		if got && len([]rune(strings.ToUpper(s))) != CIFLength {
			t.Fatalf("Validate(%q) accepted a code of the wrong length", s)
		}
		if got != Validate(strings.ToLower(s)) && strings.ToUpper(strings.ToLower(s)) == strings.ToUpper(s) {
			t.Fatalf("Validate(%q) depends on case", s)
		}
	})
}
