package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	token, exp, err := iss.Issue(Identity{UserID: "u-1", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u-1", DisplayName: "Alice"}, id)
}

func TestParseRejectsBadTokens(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	foreign, _, err := other.Issue(Identity{UserID: "u-1"})
	require.NoError(t, err)

	expired := NewIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(Identity{UserID: "u-1"})
	require.NoError(t, err)

	noSubject, _, err := iss.Issue(Identity{DisplayName: "ghost"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":    "not-a-token",
		"foreign":    foreign,
		"expired":    old,
		"no subject": noSubject,
		"alg none":   unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueGuest(t *testing.T) {
	iss := NewIssuer("secret", 0)

	id, token, _, err := iss.IssueGuest("  Bob  ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", id.DisplayName)
	assert.Regexp(t, `^guest-[0-9a-f-]{36}$`, id.UserID)

	parsed, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}
