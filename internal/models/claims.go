package models

import "github.com/golang-jwt/jwt/v5"

// CallerClaims identifies the account on whose behalf a request is made.
type CallerClaims struct {
	jwt.RegisteredClaims
	Caller string `json:"caller"`
}

// CallerKey decodes the caller claim.
func (c *CallerClaims) CallerKey() (Pubkey, error) {
	return PubkeyFromBase58(c.Caller)
}
