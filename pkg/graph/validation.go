package graph

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// CheckValidationToken sanity-checks a lifecycle notification's validation
// token: Graph issues these as JWTs with the app's client id as audience.
// The signature is Microsoft's; we only verify the claims we can check
// offline before acknowledging the lifecycle event.
func CheckValidationToken(raw, clientID string) error {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("malformed validation token: %w", err)
	}

	audiences, err := token.Claims.GetAudience()
	if err != nil {
		return fmt.Errorf("validation token has no audience: %w", err)
	}
	for _, aud := range audiences {
		if aud == clientID {
			return nil
		}
	}
	return fmt.Errorf("validation token audience does not match client id")
}
