package crypto

import "crypto/sha256"

// KeySize - длина ключа AES-128 и вектора инициализации (в байтах).
const KeySize = 16

// DeriveKey получает ключ и IV из пароля и соли.
//
// Первый раунд хэширует password||salt, каждый следующий - только предыдущий
// дайджест. iterations=0 и iterations=1 дают одинаковый результат.
// key и iv делят один буфер: Wipe(key, iv) затирает весь дайджест.
func DeriveKey(password, salt []byte, iterations uint32) (key, iv []byte) {
	h := sha256.New()
	h.Write(password)
	h.Write(salt)
	digest := h.Sum(nil)
	for i := uint32(1); i < iterations; i++ {
		sum := sha256.Sum256(digest)
		copy(digest, sum[:])
	}
	return digest[:KeySize:KeySize], digest[KeySize : 2*KeySize : 2*KeySize]
}
