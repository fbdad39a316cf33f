package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func callWith(t *testing.T, authorization string) (*httptest.ResponseRecorder, *RequestContext) {
	t.Helper()
	var got *RequestContext
	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rc, ok := FromContext(r.Context()); ok {
			got = &rc
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/shape/projects", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, got
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	rec, rc := callWith(t, "Bearer "+signToken(t, userID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, rc)
	require.Equal(t, userID, rc.UserID)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, rc := callWith(t, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, rc)
}

func TestMiddlewareRejectsBadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.New().String()})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	rec, rc := callWith(t, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, rc)
}

func TestMiddlewareRejectsNonUUIDSubject(t *testing.T) {
	rec, rc := callWith(t, "Bearer "+signToken(t, "not-a-uuid"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, rc)
}
