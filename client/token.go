package client

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens issued by the mock transport carry these prefixes and never expire.
var mockTokenPrefixes = []string{"mock-jwt-token-", "refreshed-jwt-token-"}

// TokenValid reports whether the access token is still usable at the given
// time. Mock-prefixed tokens are always valid; everything else is decoded as
// a JWT and checked against its expiry claim. The client holds no signing
// secret, so the signature is not verified. Any parse failure fails closed.
func TokenValid(token string, now time.Time) bool {
	for _, prefix := range mockTokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.After(now)
}
