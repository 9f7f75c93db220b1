package user

import "golang.org/x/crypto/bcrypt"

// HashPassword produces the stored digest. Called on the store write
// path so no plaintext password crosses the persistence boundary.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plain matches the stored digest.
func VerifyPassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
