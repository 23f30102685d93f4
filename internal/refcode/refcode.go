// Package refcode generates referral codes.
package refcode

import "crypto/rand"

// Alphabet is the character set referral codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the code length used when none is requested.
const DefaultLength = 8

// Generate returns a random code of the given length drawn from Alphabet,
// using one crypto/rand byte per character taken modulo the alphabet size.
// The modulo introduces a slight bias since 256 is not divisible by 36,
// which is acceptable for referral codes.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}

	return string(buf), nil
}
