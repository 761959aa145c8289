package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/mem"
)

func TestSession_Expiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	var testCases = []struct {
		description string
		session     *Session
		expect      time.Time
	}{
		{description: "jwt access token", session: &Session{AccessToken: signed}, expect: exp},
		{description: "opaque access token", session: &Session{AccessToken: "opaque"}},
		{description: "no session"},
	}
	for _, testCase := range testCases {
		assert.True(t, testCase.expect.Equal(testCase.session.Expiry()), testCase.description)
	}
}

func TestSession_Token(t *testing.T) {
	session := &Session{AccessToken: "a1", RefreshToken: "r1"}
	token := session.Token()
	assert.Equal(t, "Bearer", token.Type())
	assert.Equal(t, "a1", token.AccessToken)
	assert.Equal(t, "r1", token.RefreshToken)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	aStore := NewMemoryStore()

	session, err := Load(ctx, aStore)
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, Save(ctx, aStore, &Session{AccessToken: "a1", RefreshToken: "r1"}))
	session, err = Load(ctx, aStore)
	require.NoError(t, err)
	assert.Equal(t, &Session{AccessToken: "a1", RefreshToken: "r1"}, session)

	require.NoError(t, Clear(ctx, aStore))
	session, err = Load(ctx, aStore)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/payroll/test/session.json"

	aStore := NewFileStore(URL)
	require.NoError(t, Save(ctx, aStore, &Session{AccessToken: "a1", RefreshToken: "r1"}))

	// a new store instance simulates a process restart
	restarted := NewFileStore(URL)
	session, err := Load(ctx, restarted)
	require.NoError(t, err)
	assert.Equal(t, &Session{AccessToken: "a1", RefreshToken: "r1"}, session)

	require.NoError(t, Clear(ctx, restarted))
	session, err = Load(ctx, NewFileStore(URL))
	require.NoError(t, err)
	assert.Nil(t, session)
}
