package mfa

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

const codeMin = 100000

var codeSpan = big.NewInt(900000)

// GenerateCode returns a uniformly random code in 100000..999999 from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// HashCode is the hex SHA-256 of code. Only the hash is persisted.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}
