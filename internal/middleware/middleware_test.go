package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminJWT(t *testing.T) {
	h := AdminJWT("s3cret")(RequireRole("admin")(ok))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, exp, err := GenerateAdminToken("s3cret", "ops", time.Hour)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(h, req).Code)

	other, _, err := GenerateAdminToken("lain", "ops", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
}

func TestAdminJWTNotConfigured(t *testing.T) {
	rec := serve(AdminJWT("")(ok), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerateAdminTokenDefaultTTL(t *testing.T) {
	token, _, err := GenerateAdminToken("s3cret", "ops", -time.Hour)
	require.NoError(t, err)
	// ttl <= 0 jatuh ke default 24 jam
	c, err := ParseAdminToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "ops", c.User)
	assert.Equal(t, "admin", c.Role)
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	rec := serve(RequireRole("admin")(ok), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKey(t *testing.T) {
	h := APIKey("k1")(ok)
	assert.Equal(t, http.StatusUnauthorized, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "k1")
	assert.Equal(t, http.StatusOK, serve(h, req).Code)

	assert.Equal(t, http.StatusOK, serve(APIKey("")(ok), httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://a.example"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://a.example")
	rec := serve(h, req)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://b.example")
	assert.Empty(t, serve(h, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	assert.Equal(t, http.StatusNoContent, serve(h, req).Code)
}

func TestRequestID(t *testing.T) {
	rec := serve(RequestID(ok), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	assert.Equal(t, "abc", serve(RequestID(ok), req).Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.5, 2)(ok)
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	unlimited := RateLimit(0, 0)(ok)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serve(unlimited, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}
