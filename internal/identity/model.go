package identity

import "time"

// User represents a registered storefront customer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Phone        string
	CreatedAt    time.Time
}

// Registration is the signup input.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Credentials is the password login input.
type Credentials struct {
	Email    string
	Password string
}
