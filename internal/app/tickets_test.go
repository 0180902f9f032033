package app

import (
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRoundTrip(t *testing.T) {
	issuer := NewTicketIssuer("test-secret", time.Minute)

	ticket, err := issuer.Issue("user-1", "match-1")
	require.NoError(t, err)

	assert.NoError(t, issuer.Verify(ticket, "user-1", "match-1"))
	assert.ErrorIs(t, issuer.Verify(ticket, "user-2", "match-1"), ErrInvalidTicket)
	assert.ErrorIs(t, issuer.Verify(ticket, "user-1", "match-2"), ErrInvalidTicket)
}

func TestTicketClaims(t *testing.T) {
	issuer := NewTicketIssuer("test-secret", time.Minute)
	ticket, err := issuer.Issue("user-1", "match-1")
	require.NoError(t, err)

	parsed, err := jwt.Parse(ticket, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "match-1", claims["sid"])
}

func TestTicketRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTicketIssuer("test-secret", time.Minute)
	other := NewTicketIssuer("other-secret", time.Minute)

	ticket, err := other.Issue("user-1", "match-1")
	require.NoError(t, err)
	assert.True(t, errors.Is(issuer.Verify(ticket, "user-1", "match-1"), ErrInvalidTicket))

	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := issuer.Issue("user-1", "match-1")
	require.NoError(t, err)
	assert.ErrorIs(t, issuer.Verify(stale, "user-1", "match-1"), ErrInvalidTicket)

	assert.ErrorIs(t, issuer.Verify("not-a-jwt", "user-1", "match-1"), ErrInvalidTicket)
}

func TestNilTicketIssuerAcceptsEverything(t *testing.T) {
	issuer := NewTicketIssuer("", time.Minute)
	assert.Nil(t, issuer)
	assert.NoError(t, issuer.Verify("", "user-1", "match-1"))
	_, err := issuer.Issue("user-1", "match-1")
	assert.Error(t, err)
}
