package crypto

import "github.com/awnumar/memguard"

// Wipe затирает чувствительные буферы (ключи, IV, открытый текст).
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		memguard.WipeBytes(b)
	}
}
