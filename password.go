package main

import "golang.org/x/crypto/bcrypt"

// hashPassword derives a salted bcrypt hash. The cost comes from Settings so
// deployments (and tests) can tune the work factor.
func hashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkPassword reports whether plain matches the stored hash. A malformed
// stored hash counts as a mismatch; callers only ever see true/false.
func checkPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
