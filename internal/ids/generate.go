package ids

import (
	"crypto/rand"
	"math/big"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 12

// Alphabet is the set of characters generated IDs are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random lowercase alphanumeric ID of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// MustGenerate is like Generate but panics if the system random source fails.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic("ids: read random source: " + err.Error())
	}
	return id
}

// IsAlphanumeric reports whether value is made only of ASCII letters and digits.
func IsAlphanumeric(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
