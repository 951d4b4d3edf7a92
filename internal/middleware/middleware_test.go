package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

const secret = "mw-secret"

func serve(t *testing.T, req *http.Request, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/x", h, mws...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func bearer(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, userID, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func TestJWTAuth(t *testing.T) {
	var gotID uint64
	var gotRole string
	h := func(c echo.Context) error {
		gotID, _ = UserID(c)
		gotRole = Role(c)
		return ok(c)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, 42, "user"))
	rec := serve(t, req, h, JWTAuth(secret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
	assert.Equal(t, "user", gotRole)

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt", bearer(t, 1, "user") + "x"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := serve(t, req, h, JWTAuth(secret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestRequireAPIKey(t *testing.T) {
	cases := []struct {
		configured, sent string
		want             int
	}{
		{"k1", "k1", http.StatusOK},
		{"k1", "", http.StatusUnauthorized},
		{"k1", "k2", http.StatusUnauthorized},
		{"", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.sent != "" {
			req.Header.Set(HeaderAPIKey, tc.sent)
		}
		rec := serve(t, req, ok, RequireAPIKey(tc.configured))
		assert.Equal(t, tc.want, rec.Code, "%+v", tc)
	}
}

type roleMap map[uint64]model.Role

func (m roleMap) RoleOf(_ context.Context, id uint64) (model.Role, error) {
	r, found := m[id]
	if !found {
		return "", repository.ErrNotFound
	}
	return r, nil
}

type adminOnly struct{ err error }

func (d adminOnly) Allowed(_ context.Context, role model.Role, _ string) (bool, error) {
	return role == model.RoleAdmin, d.err
}

func TestAuthorizeUsesStoredRole(t *testing.T) {
	roles := roleMap{1: model.RoleAdmin, 2: model.RoleUser}

	// A token claiming admin does not help a user whose stored role is user.
	cases := []struct {
		id    uint64
		claim string
		want  int
	}{
		{1, "user", http.StatusOK},
		{2, "admin", http.StatusForbidden},
		{3, "admin", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, tc.id, tc.claim))
		rec := serve(t, req, ok, JWTAuth(secret), Authorize(adminOnly{}, roles, "create_train"))
		assert.Equal(t, tc.want, rec.Code, "%+v", tc)
	}
}

func TestAuthorizePolicyError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, 1, "admin"))
	rec := serve(t, req, ok, JWTAuth(secret),
		Authorize(adminOnly{err: errors.New("boom")}, roleMap{1: model.RoleAdmin}, "create_train"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthorizeWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := serve(t, req, ok, Authorize(adminOnly{}, roleMap{}, "create_train"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"train_id":1}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"train_id":1}]`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestDisabledCacheAndLimiterPassThrough(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
	assert.Nil(t, rc)
	assert.NoError(t, rc.Invalidate(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := serve(t, req, ok, rc.Middleware(), NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/x")
	c.Set(ctxUserID, uint64(9))

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:9:route:GET /x", rateKey(cfg, c))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:9", rateKey(cfg, c))
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", rateKey(cfg, c))
}
