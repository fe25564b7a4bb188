package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for client secrets.
var HashCost = bcrypt.DefaultCost

// Hash hashes a client secret with bcrypt.
func Hash(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Check reports whether secret matches hash.
func Check(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// NeedsRehash reports whether hash was made with a different cost.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != HashCost
}
