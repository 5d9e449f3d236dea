package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("stats-viewer", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	subject, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if subject != "stats-viewer" {
		t.Fatalf("subject = %q", subject)
	}
}

func TestValidateRejects(t *testing.T) {
	good, _ := GenerateToken("viewer", testSecret, time.Hour)
	expired, _ := GenerateToken("viewer", testSecret, -time.Minute)
	wrongType, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "viewer",
		"exp": time.Now().Add(time.Hour).Unix(),
		"typ": "access",
	}).SignedString(testSecret)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "viewer",
		"typ": "report",
	}).SignedString(testSecret)

	cases := map[string]struct {
		token  string
		secret []byte
	}{
		"wrong secret": {good, []byte("other")},
		"expired":      {expired, testSecret},
		"wrong type":   {wrongType, testSecret},
		"no expiry":    {noExpiry, testSecret},
		"garbage":      {"not.a.token", testSecret},
		"tampered":     {good + "x", testSecret},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateToken(tc.token, tc.secret); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGenerateRequiresSecretAndSubject(t *testing.T) {
	if _, err := GenerateToken("viewer", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := GenerateToken("", testSecret, time.Hour); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
