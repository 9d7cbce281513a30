// Package session inspects the portal credential the client acts with.
// Signature checks stay with the portal; the client only reads claims to label
// its session and to avoid connecting with a credential that already expired.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrExpired is returned when the credential's exp claim lies in the past.
var ErrExpired = errors.New("session credential expired")

// ErrMissing is returned when no credential is configured.
var ErrMissing = errors.New("session credential missing")

// Credential wraps the Authorization header value sent to the portal.
type Credential struct {
	header string
	id     string
	now    func() time.Time
}

// Claims is what the client can learn about its credential without verifying it.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
	Opaque    bool
}

// NewCredential wraps an Authorization header value. A bare token is given
// the Bearer scheme, matching what the portal expects.
func NewCredential(header string) *Credential {
	header = strings.TrimSpace(header)
	if header != "" && !strings.Contains(header, " ") {
		header = "Bearer " + header
	}
	return &Credential{header: header, id: uuid.NewString(), now: time.Now}
}

// Header returns the Authorization header value.
func (c *Credential) Header() string {
	if c == nil {
		return ""
	}
	return c.header
}

// SessionID identifies this client session in logs.
func (c *Credential) SessionID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Inspect reads the token's registered claims without verifying the
// signature. Tokens that are not JWTs are reported as opaque.
func (c *Credential) Inspect() (Claims, error) {
	if c == nil || c.header == "" {
		return Claims{}, ErrMissing
	}
	token := c.header
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "Bearer") {
		token = strings.TrimSpace(rest)
	}

	registered := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, registered); err != nil {
		return Claims{Opaque: true}, nil
	}

	claims := Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		exp := registered.ExpiresAt.Time
		claims.ExpiresAt = &exp
	}
	return claims, nil
}

// Check fails when the credential is missing or expired.
func (c *Credential) Check() error {
	claims, err := c.Inspect()
	if err != nil {
		return err
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(c.now()) {
		return ErrExpired
	}
	return nil
}
