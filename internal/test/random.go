package test

import (
	"math/rand"
	"sync"
	"time"
)

const (
	loginChars    = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#%+-_"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomLogin returns a unique-looking customer login in e-mail form.
func RandomLogin() string {
	return randomString(loginChars, 6, 12) + "@example.com"
}

// RandomPassword returns a password long enough for account registration.
func RandomPassword() string {
	return randomString(passwordChars, 12, 24)
}

func randomString(alphabet string, minLen, maxLen int) string {
	rngMu.Lock()
	defer rngMu.Unlock()
	buf := make([]byte, minLen+rng.Intn(maxLen-minLen+1))
	for i := range buf {
		buf[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(buf)
}
