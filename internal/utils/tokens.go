package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewNumericCode — равномерный случайный код из digits цифр (с ведущими нулями).
func NewNumericCode(digits int) (string, error) {
	if digits <= 0 {
		digits = 4
	}
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
