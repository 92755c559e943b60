package helpers

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no user matches the login email, so
// a wrong email and a wrong password cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("equal-cost-dummy"), bcrypt.DefaultCost)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CompareDummy burns one bcrypt comparison and always fails.
func CompareDummy(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
	return false
}
