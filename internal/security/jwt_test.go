package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func newTestCodec(t *testing.T, issuer string) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, issuer)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func TestNewTokenCodec_BadSecret(t *testing.T) {
	if _, err := NewTokenCodec("not base64!!!", "auth"); err == nil {
		t.Fatalf("expected error for invalid base64 secret")
	}
	if _, err := NewTokenCodec("", "auth"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenCodec(testSecret, ""); err == nil {
		t.Fatalf("expected error for empty issuer")
	}
}

func TestMintValidate_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	user := &domain.User{ID: "1", Email: "alice@example.com"}

	token, err := codec.Mint(user, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	v := codec.Validate(token)
	if !v.Valid {
		t.Fatalf("expected token to be valid")
	}
	if v.Subject != "alice@example.com" {
		t.Fatalf("unexpected subject: %q", v.Subject)
	}
}

func TestMint_NilUser(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	if _, err := codec.Mint(nil, time.Hour); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := codec.Mint(&domain.User{}, time.Hour); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	token, err := codec.Mint(&domain.User{Email: "bob@example.com"}, -time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if v := codec.Validate(token); v.Valid {
		t.Fatalf("expected expired token to be invalid")
	}
}

func TestValidate_IssuerMismatch(t *testing.T) {
	minter := newTestCodec(t, "issuer-one")
	checker := newTestCodec(t, "issuer-two")

	token, err := minter.Mint(&domain.User{Email: "carol@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if v := checker.Validate(token); v.Valid {
		t.Fatalf("expected issuer mismatch to fail validation")
	}
}

func TestValidate_BadSignature(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	other, err := NewTokenCodec(base64.StdEncoding.EncodeToString([]byte("another-signing-key-entirely-0000")), "auth-service")
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	token, err := other.Mint(&domain.User{Email: "dave@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if v := codec.Validate(token); v.Valid {
		t.Fatalf("expected foreign signature to fail validation")
	}
}

func TestValidate_Malformed(t *testing.T) {
	codec := newTestCodec(t, "auth-service")

	for _, input := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if v := codec.Validate(input); v.Valid {
			t.Fatalf("expected %q to be invalid", input)
		}
	}
}

func TestValidate_Tampered(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	token, err := codec.Mint(&domain.User{Email: "eve@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"auth-service","sub":"mallory@example.com"}`)) + "." + parts[2]
	if v := codec.Validate(forged); v.Valid {
		t.Fatalf("expected tampered payload to fail validation")
	}
}

func TestValidateForSubject(t *testing.T) {
	codec := newTestCodec(t, "auth-service")
	token, err := codec.Mint(&domain.User{Email: "frank@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if !codec.ValidateForSubject(token, "frank@example.com") {
		t.Fatalf("expected subject match to succeed")
	}
	if codec.ValidateForSubject(token, "Frank@example.com") {
		t.Fatalf("subject comparison must be case-sensitive")
	}
	if codec.ValidateForSubject("", "frank@example.com") {
		t.Fatalf("blank token must not match any subject")
	}
}
