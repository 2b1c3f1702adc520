package handicapjwt

import "time"

// Claims identifies the caller of a write endpoint.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Provider mints and validates bearer tokens for the API.
type Provider interface {
	GenerateToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}
