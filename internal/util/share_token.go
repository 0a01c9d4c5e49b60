package util

import (
	"crypto/rand"
	"encoding/hex"
)

// ShareTokenBytes : 20 байт = 160 бит энтропии, 40 hex-символов.
// Глобальная уникальность токена обеспечивается криптографической
// случайностью, вероятность коллизии пренебрежимо мала.
const ShareTokenBytes = 20

// GenerateShareToken : генерирует токен share-ссылки из crypto/rand
func GenerateShareToken() (string, error) {
	bytes := make([]byte, ShareTokenBytes)

	if _, err := rand.Read(bytes); err != nil {
		return "", LogError("[util] ошибка генерации токена", err)
	}

	return hex.EncodeToString(bytes), nil
}
