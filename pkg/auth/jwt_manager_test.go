package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Generate_And_Verify_Roundtrip(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New().String()

	token, err := mgr.Generate(userID)
	req.NoError(err)

	claims, err := mgr.Verify(token)
	req.NoError(err)
	req.Equal(userID, claims.Subject)
}

func Test_Verify_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Generate(uuid.New().String())
	req.NoError(err)

	other := NewJWTManager("another-secret", time.Hour)
	_, err = other.Verify(token)
	req.Error(err)
}

func Test_Verify_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.Generate(uuid.New().String())
	req.NoError(err)

	_, err = mgr.Verify(token)
	req.Error(err)
}

func Test_ExtractTokenFromHeader(t *testing.T) {
	req := require.New(t)

	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")

	token, err := ExtractTokenFromHeader(r)
	req.NoError(err)
	req.Equal("abc123", token)

	r.Header.Set("Authorization", "abc123")
	_, err = ExtractTokenFromHeader(r)
	req.Error(err)

	r.Header.Del("Authorization")
	_, err = ExtractTokenFromHeader(r)
	req.Error(err)
}
