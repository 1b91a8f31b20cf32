package probe

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	probeSubject = "section3-health-probe"
	hkdfInfo     = "section3/health-probe/v1"
)

// SecurityProbe verifies that the signing secret and the encryption key are
// present, long enough and usable.
type SecurityProbe struct{}

func NewSecurityProbe() *SecurityProbe {
	return &SecurityProbe{}
}

func (p *SecurityProbe) Kind() Kind { return KindSecurity }

func (p *SecurityProbe) Check(_ context.Context, cfg *config.Config) types.ProbeResult {
	secret, key := cfg.Security.JWTSecret, cfg.Security.EncryptionKey

	var missing, short []string
	for _, s := range []struct{ name, value string }{
		{"JWT_SECRET", secret},
		{"ENCRYPTION_KEY", key},
	} {
		switch {
		case s.value == "":
			missing = append(missing, s.name)
		case len(s.value) < config.MinSecretLength:
			short = append(short, s.name)
		}
	}
	if len(missing) > 0 {
		return notConfigured(strings.Join(missing, " and ") + " not configured")
	}
	if len(short) > 0 {
		return types.ProbeResult{
			Status:  types.ProbeStatusDegraded,
			Message: fmt.Sprintf("%s shorter than %d characters", strings.Join(short, " and "), config.MinSecretLength),
		}
	}

	if err := signingRoundTrip(secret); err != nil {
		return unhealthy("token signing round trip failed", err)
	}
	if err := encryptionRoundTrip(key); err != nil {
		return unhealthy("encryption round trip failed", err)
	}
	return types.ProbeResult{Status: types.ProbeStatusConfigured, Message: "signing and encryption keys verified"}
}

func signingRoundTrip(secret string) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   probeSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	parsed := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, parsed, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if parsed.Subject != probeSubject {
		return fmt.Errorf("subject mismatch: %q", parsed.Subject)
	}
	return nil
}

func encryptionRoundTrip(key string) error {
	derived := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(key), nil, []byte(hkdfInfo)), derived); err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	plaintext := []byte(probeSubject)
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	opened, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if !bytes.Equal(opened, plaintext) {
		return fmt.Errorf("decrypted payload does not match")
	}
	return nil
}
