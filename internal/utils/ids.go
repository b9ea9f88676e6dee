package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateID builds an opaque public identifier such as BK1756406400000A1B2C:
// the given prefix, the current unix time in milliseconds and a 5 character
// random suffix.  The identifier is unique for practical purposes; the
// database UNIQUE constraints remain the hard guarantee.
func GenerateID(prefix string) string {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		panic(err)
	}
	for i := range suffix {
		suffix[i] = idCharset[int(suffix[i])%len(idCharset)]
	}
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), suffix)
}
