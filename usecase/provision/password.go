package provision

import "math/rand"

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const passwordLength = 8

// GeneratePassword returns an 8-character alphanumeric password. The source
// is math/rand, not crypto/rand: the product hands the password to the user
// in the welcome mail and expects it to be changed, so this must not be
// relied on in security-sensitive contexts.
func GeneratePassword() string {
	buf := make([]byte, passwordLength)
	for i := range buf {
		buf[i] = passwordAlphabet[rand.Intn(len(passwordAlphabet))]
	}
	return string(buf)
}
