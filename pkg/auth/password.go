package auth

import "golang.org/x/crypto/bcrypt"

// HashToken hashes the operator token for storage in configuration
func HashToken(token string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckToken compares a presented operator token with the configured hash
func CheckToken(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
