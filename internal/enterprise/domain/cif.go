package domain

import (
	"strings"
)

const (
	// CIFLength is the number of characters in a CIF: letter, 7 digits, control.
	CIFLength = 9
	// BlockLength is the size of the numeric block between letter and control.
	BlockLength = 7
)

// ControlKind tells which alphabet the control character is drawn from.
type ControlKind int

const (
	ControlDigit ControlKind = iota
	ControlLetter
)

func (k ControlKind) String() string {
	if k == ControlLetter {
		return "letter"
	}
	return "digit"
}

// Letter controls indexed by base digit.
const letterControls = "JABCDEFGHI"

// ControlKindFor returns the control alphabet used by an organization letter.
// Letters outside both known sets fall back to a digit control.
func ControlKindFor(letter rune) ControlKind {
	switch letter {
	case 'A', 'B', 'E', 'H':
		return ControlDigit
	case 'K', 'P', 'Q', 'S':
		return ControlLetter
	default:
		// TODO: N, R and W also carry letter controls in the official rules;
		// confirm with the registry owners before extending this set.
		return ControlDigit
	}
}

// Validate reports whether candidate is a well-formed CIF whose control
// character matches the checksum of its numeric block. It never fails.
func Validate(candidate string) bool {
	runes := []rune(strings.ToUpper(candidate))
	if len(runes) != CIFLength {
		return false
	}

	letter := runes[0]
	block := padBlock(string(runes[1:8]))
	control := runes[8]

	expected, ok := ControlFor(letter, block)
	if !ok {
		return false
	}
	if !isUpperLetter(letter) {
		return false
	}

	return control == expected
}

// ControlFor computes the control character expected for letter and a
// numeric block. It returns false when the block is not made of digits.
func ControlFor(letter rune, block string) (rune, bool) {
	block = padBlock(block)
	if len(block) != BlockLength {
		return 0, false
	}

	total := 0
	for i := 0; i < BlockLength; i++ {
		c := block[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int(c - '0')
		if i%2 == 1 {
			total += d
			continue
		}
		total += sumDigits(d * 2)
	}

	base := 0
	if unit := total % 10; unit != 0 {
		base = 10 - unit
	}

	if ControlKindFor(letter) == ControlLetter {
		return rune(letterControls[base]), true
	}
	return rune('0' + base), true
}

// Complete appends the control character to an 8 character prefix
// (organization letter followed by the numeric block).
func Complete(prefix string) (CIF, error) {
	runes := []rune(strings.ToUpper(prefix))
	if len(runes) != CIFLength-1 || !isUpperLetter(runes[0]) {
		return CIF{}, ErrInvalidIdentifier
	}
	control, ok := ControlFor(runes[0], string(runes[1:]))
	if !ok {
		return CIF{}, ErrInvalidIdentifier
	}
	return NewCIF(string(runes) + string(control))
}

func sumDigits(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

func padBlock(block string) string {
	if n := len([]rune(block)); n < BlockLength {
		return strings.Repeat("0", BlockLength-n) + block
	}
	return block
}

func isUpperLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// CIF is a validated Spanish tax identification code for legal entities.
//
// Invariants:
//   - Exactly 9 characters, uppercase
//   - Leading organization letter, 7 digit numeric block
//   - Control character matches the block checksum
type CIF struct {
	value string
}

// NewCIF creates a validated CIF, normalizing it to uppercase.
func NewCIF(value string) (CIF, error) {
	if !Validate(value) {
		return CIF{}, ErrInvalidIdentifier
	}
	return CIF{value: strings.ToUpper(value)}, nil
}

// MustCIF creates a CIF, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustCIF(value string) CIF {
	c, err := NewCIF(value)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CIF) String() string {
	return c.value
}

// Letter returns the organization type letter.
func (c CIF) Letter() rune {
	if c.IsZero() {
		return 0
	}
	return rune(c.value[0])
}

// NumberBlock returns the 7 digit block.
func (c CIF) NumberBlock() string {
	if c.IsZero() {
		return ""
	}
	return c.value[1 : CIFLength-1]
}

// Control returns the trailing control character.
func (c CIF) Control() rune {
	if c.IsZero() {
		return 0
	}
	return rune(c.value[CIFLength-1])
}

// IsZero returns true if this is the zero value (uninitialized).
func (c CIF) IsZero() bool {
	return c.value == ""
}
