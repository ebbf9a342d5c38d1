// AngelaMos | 2026
// codegen.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	// ConfirmationCodeLength is the number of digits in a signup
	// confirmation code.
	ConfirmationCodeLength = 5

	codeAlphabet = "0123456789"
)

// GenerateConfirmationCode draws a fixed-length digit string uniformly at
// random. A fresh code is drawn on every issuance; codes are never reused.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, ConfirmationCodeLength)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}

	return string(buf), nil
}

// CompareConfirmationCode reports whether the supplied code matches the
// stored one. An empty stored code is the consumed sentinel and never
// matches anything.
func CompareConfirmationCode(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
