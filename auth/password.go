package auth

import "golang.org/x/crypto/bcrypt"

// Passwords hashes and checks passwords with bcrypt.
type Passwords struct {
	Cost int
}

func NewPasswords() Passwords {
	return Passwords{Cost: bcrypt.DefaultCost}
}

func (p Passwords) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	return string(bytes), err
}

func (p Passwords) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
