package cashtrackr

import (
	"crypto/rand"
	"math/big"
)

// OpaqueTokenLength is the length of confirmation and reset tokens. They
// are short enough to be typed from an email on a phone.
const OpaqueTokenLength = 6

var tokenDigits = []byte("0123456789")

// NewOpaqueToken returns a fixed-length single-use token drawn from
// crypto/rand. Uniqueness is not guaranteed here: tokens are looked up by
// equality against the store and a clash simply means the earlier token
// wins or loses by write order.
func NewOpaqueToken() string {
	max := big.NewInt(int64(len(tokenDigits)))
	buf := make([]byte, OpaqueTokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken,
			// at which point issuing guessable tokens is worse than dying.
			panic("cashtrackr: crypto/rand unavailable: " + err.Error())
		}
		buf[i] = tokenDigits[n.Int64()]
	}
	return string(buf)
}
