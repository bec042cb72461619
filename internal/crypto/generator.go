package crypto

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

const (
	Digits  = "0123456789"
	Symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	MinLength     = 4
	MaxLength     = 128
	DefaultLength = 16
)

// ErrNoCharacterPool is returned when every selected character pool is empty.
var ErrNoCharacterPool = errors.New("select at least one character set")

// LetterCase selects which letter pools the letters toggle enables.
type LetterCase string

const (
	CaseLower  LetterCase = "lower"
	CaseUpper  LetterCase = "upper"
	CaseRandom LetterCase = "random"
)

// PasswordOptions configures the password generator.
// Letters gates no pool by itself; use ApplyLetterCase to fold it into
// Lower, Upper and RandomReg.
type PasswordOptions struct {
	Length        int
	Letters       bool
	Lower         bool
	Upper         bool
	RandomReg     bool
	Digits        bool
	Symbols       bool
	CustomCharset string
}

// DefaultOptions returns the initial generator state: 16 characters with
// lowercase letters, digits and symbols.
func DefaultOptions() PasswordOptions {
	return PasswordOptions{
		Length:  DefaultLength,
		Letters: true,
		Lower:   true,
		Digits:  true,
		Symbols: true,
	}
}

// ApplyLetterCase reconciles the letters toggle and the chosen case into the
// pool flags. With letters off all letter pools are cleared.
func (o *PasswordOptions) ApplyLetterCase(letters bool, c LetterCase) {
	o.Letters = letters
	o.Lower = letters && c == CaseLower
	o.Upper = letters && c == CaseUpper
	o.RandomReg = letters && c == CaseRandom
}

// ClampLength bounds n to [MinLength, MaxLength].
func ClampLength(n int) int {
	if n < MinLength {
		return MinLength
	}
	if n > MaxLength {
		return MaxLength
	}
	return n
}

// Generator produces passwords from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a Generator reading randomness from r.
// A nil r uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

var defaultGenerator = NewGenerator(nil)

// Generate creates a random password using crypto/rand.
func Generate(opts PasswordOptions) (string, error) {
	return defaultGenerator.Generate(opts)
}

// Generate creates a password containing at least one character from every
// selected pool. The result is max(opts.Length, number of pools) runes long.
func (g *Generator) Generate(opts PasswordOptions) (string, error) {
	pools, combined := buildPools(opts)
	if len(combined) == 0 {
		return "", ErrNoCharacterPool
	}

	out := make([]rune, 0, max(opts.Length, len(pools)))

	// Guarantee at least one character from each pool.
	for _, p := range pools {
		ch, err := g.pick(p)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Fill the remaining positions from the combined alphabet.
	for len(out) < opts.Length {
		ch, err := g.pick(combined)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	if err := g.shuffle(out); err != nil {
		return "", err
	}

	return string(out), nil
}

// buildPools returns the non-empty pools in selection order and their
// concatenation. RandomReg adds the letter pools a second time even when
// Lower or Upper already did.
func buildPools(opts PasswordOptions) ([][]rune, []rune) {
	var pools [][]rune
	add := func(s string) {
		if s != "" {
			pools = append(pools, []rune(s))
		}
	}

	if opts.Digits {
		add(Digits)
	}
	if opts.Symbols {
		add(Symbols)
	}
	if opts.Lower {
		add(Lower)
	}
	if opts.Upper {
		add(Upper)
	}
	add(opts.CustomCharset)
	if opts.RandomReg {
		add(Lower)
		add(Upper)
	}

	var combined []rune
	for _, p := range pools {
		combined = append(combined, p...)
	}
	return pools, combined
}

// pick returns a uniformly chosen rune from charset.
func (g *Generator) pick(charset []rune) (rune, error) {
	i, err := g.intn(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

// shuffle performs a Fisher-Yates shuffle.
func (g *Generator) shuffle(data []rune) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
