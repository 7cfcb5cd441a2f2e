package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateToken returns n random base-36 characters.
func generateToken(n int) string {
	max := big.NewInt(int64(len(idAlphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = idAlphabet[time.Now().UnixNano()%int64(len(idAlphabet))]
			continue
		}
		b[i] = idAlphabet[v.Int64()]
	}
	return string(b)
}

// newID builds "<prefix>_<unix ms>_<9 random chars>".
func newID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), generateToken(9))
}

func generateRoomID(now time.Time) string   { return newID("room", now) }
func generatePlayerID(now time.Time) string { return newID("player", now) }
