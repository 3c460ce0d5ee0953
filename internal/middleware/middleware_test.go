package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newRouter(logger *slog.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(logger), AuthMiddleware(testSecret))
	r.Use(extra...)
	r.GET("/whoami", func(c *gin.Context) {
		operatorID, _ := GetOperatorIDFromContext(c)
		GetLoggerFromContext(c).Info("handled")
		c.JSON(http.StatusOK, gin.H{"operator": operatorID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(slog.New(slog.NewJSONHandler(&buf, nil)))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + signToken(t, testSecret, "op-1", time.Now().Add(time.Hour)), wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", "op-1", time.Now().Add(time.Hour)), wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, "op-1", time.Now().Add(-time.Hour)), wantStatus: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + signToken(t, testSecret, "", time.Now().Add(time.Hour)), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}

	assert.Contains(t, buf.String(), `"operator_id":"op-1"`)
}

func TestRateLimit(t *testing.T) {
	lim, err := NewRateLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), RateLimit(lim))
	token := "Bearer " + signToken(t, testSecret, "op-rl", time.Now().Add(time.Hour))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewRateLimiter("lots")
	assert.Error(t, err)
}
