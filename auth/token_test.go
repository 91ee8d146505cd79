package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("API_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestCreateAndExtractToken(t *testing.T) {
	token, err := CreateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	uid, err := ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
	assert.NoError(t, TokenValid(req))
}

func TestExtractTokenFromQueryParam(t *testing.T) {
	token, err := CreateToken(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	uid, err := ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
}

func TestInvalidTokenRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	_, err := ExtractTokenID(req)
	assert.Error(t, err)
	assert.Error(t, TokenValid(req))
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	token, err := CreateToken(42)
	require.NoError(t, err)

	os.Setenv("API_SECRET", "rotated-secret")
	defer os.Setenv("API_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = ExtractTokenID(req)
	assert.Error(t, err)
}
