package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newProtectedHandler(t *testing.T) http.Handler {
	t.Helper()

	m := NewJWTMiddleware(Config{Secret: testSecret}, zap.NewNop().Sugar())
	return m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(userID))
	}))
}

func serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/trainingplans", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "milosz", time.Hour)
	require.NoError(t, err)

	rr := serve(newProtectedHandler(t), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "milosz", rr.Body.String())
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	expired, err := GenerateToken(testSecret, "milosz", -time.Minute)
	require.NoError(t, err)

	wrongSecret, err := GenerateToken("other-secret", "milosz", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "milosz",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"MissingHeader", ""},
		{"NotBearer", "Basic dXNlcjpwYXNz"},
		{"Garbage", "Bearer not-a-token"},
		{"Expired", "Bearer " + expired},
		{"WrongSecret", "Bearer " + wrongSecret},
		{"MissingSubject", "Bearer " + noSubject},
		{"UnexpectedAlgorithm", "Bearer " + hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newProtectedHandler(t), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var envelope domain.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
			assert.Equal(t, domain.NewErrorEnvelope(http.StatusUnauthorized, "Unauthorized"), envelope)
		})
	}
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	_, err := GenerateToken("", "milosz", time.Hour)
	assert.Error(t, err)
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req.Context())
	assert.False(t, ok)
}
