package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 10
)

// Generator produces numeric one-time codes.
type Generator interface {
	Generate() (string, error)
}

// NumericGenerator draws codes uniformly from [0, 10^length) using crypto/rand.
type NumericGenerator struct {
	length int
	max    *big.Int
	source io.Reader
}

func NewNumericGenerator(length int) *NumericGenerator {
	if length < MinLength || length > MaxLength {
		length = DefaultLength
	}

	return &NumericGenerator{
		length: length,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
		source: rand.Reader,
	}
}

func (g *NumericGenerator) Length() int {
	return g.length
}

func (g *NumericGenerator) Generate() (string, error) {
	n, err := rand.Int(g.source, g.max)
	if err != nil {
		return "", errors.Wrap(err, "read random source")
	}

	return fmt.Sprintf("%0*d", g.length, n.Int64()), nil
}

// IsNumeric reports whether code consists of exactly length ASCII digits.
func IsNumeric(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
