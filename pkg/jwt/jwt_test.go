package jwt_test

import (
	"errors"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/controle-validade/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "ana@example.com", "authenticated", "supabase", 5)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(secret, "supabase", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "authenticated", id.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "a@b.c", "authenticated", "supabase", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", "", tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenSignatureInvalid))

	_, err = pkgjwt.Parse(secret, "otro-issuer", tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenInvalidIssuer))

	expired, err := pkgjwt.Generate(secret, "user-1", "a@b.c", "authenticated", "", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, "", expired)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))

	noSub, err := pkgjwt.Generate(secret, "", "a@b.c", "anon", "", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, "", noSub)
	assert.True(t, errors.Is(err, pkgjwt.ErrInvalidClaims))

	_, err = pkgjwt.Parse("", "", tok)
	assert.Error(t, err)
}
