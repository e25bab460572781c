// Package media issues media-session credentials for joining participants.
// Credentials are signed JWTs scoped to one room and one participant,
// standing in for a third-party audio/video provider's token grant.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvisioner signs short-lived HS256 tokens carrying the room and
// participant identity.
type TokenProvisioner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenProvisioner creates a provisioner signing with the given secret.
//
// Precondition: secret must be non-empty; ttl must be positive.
// Postcondition: Returns a provisioner or a non-nil error.
func NewTokenProvisioner(secret string, ttl time.Duration) (*TokenProvisioner, error) {
	if secret == "" {
		return nil, fmt.Errorf("media signing secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("media token ttl must be positive, got %s", ttl)
	}
	return &TokenProvisioner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Provision issues a credential for the participant's media session in the
// given room.
//
// Precondition: roomID and participantID must be non-empty.
// Postcondition: Returns a signed token string or a non-nil error.
func (p *TokenProvisioner) Provision(ctx context.Context, roomID, participantID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("provisioning cancelled: %w", err)
	}
	if roomID == "" || participantID == "" {
		return "", fmt.Errorf("room and participant identifiers must not be empty")
	}

	issued := p.now()
	claims := jwt.MapClaims{
		"sub":  participantID,
		"room": roomID,
		"iat":  issued.Unix(),
		"exp":  issued.Add(p.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("signing media credential: %w", err)
	}
	return signed, nil
}

// Verify parses a credential and returns the room and participant it was
// issued for.
//
// Postcondition: Returns (roomID, participantID, nil) for a valid unexpired
// token, or a non-nil error.
func (p *TokenProvisioner) Verify(credential string) (string, string, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil {
		return "", "", fmt.Errorf("parsing media credential: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	roomID, _ := claims["room"].(string)
	participantID, _ := claims["sub"].(string)
	if roomID == "" || participantID == "" {
		return "", "", fmt.Errorf("credential missing room or participant claim")
	}
	return roomID, participantID, nil
}
