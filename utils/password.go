package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword returns an argon2id encoded hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func VerifyPassword(encodedHash, password string) bool {
	if encodedHash == "" {
		return false
	}
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	return err == nil && ok
}
