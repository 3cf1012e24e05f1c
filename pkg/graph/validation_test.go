package graph

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func lifecycleToken(t *testing.T, audience string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"aud": audience})
	raw, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

func TestCheckValidationTokenMatchingAudience(t *testing.T) {
	raw := lifecycleToken(t, "client-123")
	if err := CheckValidationToken(raw, "client-123"); err != nil {
		t.Fatalf("matching audience rejected: %v", err)
	}
}

func TestCheckValidationTokenWrongAudience(t *testing.T) {
	raw := lifecycleToken(t, "someone-else")
	if err := CheckValidationToken(raw, "client-123"); err == nil {
		t.Fatal("mismatched audience accepted")
	}
}

func TestCheckValidationTokenMalformed(t *testing.T) {
	if err := CheckValidationToken("not-a-jwt", "client-123"); err == nil {
		t.Fatal("malformed token accepted")
	}
}
