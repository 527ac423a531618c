package hash

import "golang.org/x/crypto/bcrypt"

// Password hashes a plaintext password with a random per-call salt.
func Password(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashBytes), nil
}

// Check reports whether password matches the stored hash. A wrong password
// is false, never an error.
func Check(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
