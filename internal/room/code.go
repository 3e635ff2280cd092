package room

import (
	"math/rand"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

func randomCode(rnd *rand.Rand) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rnd.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// NormalizeCode upper-cases a user supplied room code and checks it against
// the code alphabet.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != codeLength {
		return "", ErrInvalidCode
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}
