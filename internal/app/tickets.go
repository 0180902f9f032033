package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidTicket = errors.New("invalid seat ticket")

// TicketIssuer signs short-lived seat tickets binding a user to a session.
// Clients get one from an RPC and present it when joining the match.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTicketIssuer returns nil when secret is empty, which disables tickets.
func NewTicketIssuer(secret string, ttl time.Duration) *TicketIssuer {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTicketTTLSeconds * time.Second
	}
	return &TicketIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a ticket for userID to take a seat in sessionID.
func (t *TicketIssuer) Issue(userID, sessionID string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("ticket issuer is nil")
	}
	if userID == "" || sessionID == "" {
		return "", fmt.Errorf("user and session are required")
	}
	now := t.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, expiry and that the ticket was issued for
// userID and sessionID.
func (t *TicketIssuer) Verify(ticket, userID, sessionID string) error {
	if t == nil {
		return nil
	}
	token, err := jwt.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidTicket
	}
	if claims["sub"] != userID || claims["sid"] != sessionID {
		return fmt.Errorf("%w: issued for another seat", ErrInvalidTicket)
	}
	return nil
}
