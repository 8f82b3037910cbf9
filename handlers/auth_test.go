package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trstyle/storefront-services/internal/config"
	"github.com/trstyle/storefront-services/internal/profilesync"
	"github.com/trstyle/storefront-services/internal/sessions"
	"github.com/trstyle/storefront-services/internal/userstore"
)

// fake sessions repo
type fakeSessionsRepo struct {
	store map[string]*sessions.Session
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *sessions.Session) error {
	if f.store == nil {
		f.store = map[string]*sessions.Session{}
	}
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeSessionsRepo) GetByRefresh(ctx context.Context, refresh string) (*sessions.Session, error) {
	s, ok := f.store[refresh]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionsRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func unsignedIDToken(claims map[string]interface{}) string {
	b, _ := json.Marshal(claims)
	return "hdr." + base64.RawURLEncoding.EncodeToString(b) + ".sig"
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "auth-test-secret-32-bytes-xxxxxxxx"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = time.Hour
	return cfg
}

func TestLoginSuccess(t *testing.T) {
	_ = os.Setenv("ALLOW_INSECURE_TOKEN", "true")
	defer os.Unsetenv("ALLOW_INSECURE_TOKEN")

	admin := userstore.NewMemoryStore("admin")
	direct := userstore.NewMemoryStore("direct")
	syncer := profilesync.NewSyncer(nil, admin, direct)
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	r := gin.New()
	h.Register(r.Group("/"))

	idToken := unsignedIDToken(map[string]interface{}{"sub": "test-sub", "email": "a@b.c", "name": "Alice"})
	body := fmt.Sprintf(`{"idToken":%q,"provider":"google"}`, idToken)
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["accessToken"])
	assert.NotEmpty(t, got["refreshToken"])

	// login committed the profile through the privileged path
	rec, err := admin.Get(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, 0, direct.SetCalls)
}

func TestLoginFallsBackToDirectPath(t *testing.T) {
	_ = os.Setenv("ALLOW_INSECURE_TOKEN", "true")
	defer os.Unsetenv("ALLOW_INSECURE_TOKEN")

	admin := userstore.NewMemoryStore("admin")
	admin.SetErr = userstore.E(userstore.KindUnavailable, "admin", "not configured", nil)
	admin.GetErr = admin.SetErr
	direct := userstore.NewMemoryStore("direct")
	syncer := profilesync.NewSyncer(nil, admin, direct)
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	r := gin.New()
	h.Register(r.Group("/"))

	idToken := unsignedIDToken(map[string]interface{}{"sub": "s-1", "email": "b@c.d", "name": "Bob"})
	body := fmt.Sprintf(`{"idToken":%q}`, idToken)
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec, err := direct.Get(context.Background(), "b@c.d")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Bob", rec.Name)
}

func TestLoginSucceedsWhenAllPathsFail(t *testing.T) {
	_ = os.Setenv("ALLOW_INSECURE_TOKEN", "true")
	defer os.Unsetenv("ALLOW_INSECURE_TOKEN")

	admin := userstore.NewMemoryStore("admin")
	admin.SetErr = userstore.E(userstore.KindUnavailable, "admin", "not configured", nil)
	admin.GetErr = admin.SetErr
	direct := userstore.NewMemoryStore("direct")
	direct.SetErr = userstore.E(userstore.KindPermissionDenied, "direct", "rules", nil)
	direct.GetErr = direct.SetErr
	syncer := profilesync.NewSyncer(nil, admin, direct)
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	r := gin.New()
	h.Register(r.Group("/"))

	idToken := unsignedIDToken(map[string]interface{}{"email": "c@d.e"})
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(fmt.Sprintf(`{"idToken":%q}`, idToken)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// a failed sync must not block login; the claims come back instead
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["refreshToken"])
	assert.Contains(t, got, "claims")
}

func TestLoginRejectsTokenWithoutIdentity(t *testing.T) {
	_ = os.Setenv("ALLOW_INSECURE_TOKEN", "true")
	defer os.Unsetenv("ALLOW_INSECURE_TOKEN")

	syncer := profilesync.NewSyncer(nil, userstore.NewMemoryStore("admin"))
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	r := gin.New()
	h.Register(r.Group("/"))

	idToken := unsignedIDToken(map[string]interface{}{"name": "Anon"})
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(fmt.Sprintf(`{"idToken":%q}`, idToken)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRequiresVerifier(t *testing.T) {
	os.Unsetenv("ALLOW_INSECURE_TOKEN")

	syncer := profilesync.NewSyncer(nil, userstore.NewMemoryStore("admin"))
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	r := gin.New()
	h.Register(r.Group("/"))

	idToken := unsignedIDToken(map[string]interface{}{"email": "a@b.c"})
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(fmt.Sprintf(`{"idToken":%q}`, idToken)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_Success(t *testing.T) {
	store := userstore.NewMemoryStore("direct")
	require.NoError(t, store.Set(context.Background(), "sub-refresh", userstore.Profile{Name: strPtr("R"), Provider: "google"}))
	syncer := profilesync.NewSyncer(nil, store)
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	rt, err := sSvc.CreateSession(context.Background(), "sub-refresh", "google", time.Hour)
	require.NoError(t, err)

	rg := gin.New()
	rg.POST("/auth/refresh", h.Refresh)

	body := fmt.Sprintf(`{"refresh_token":%q}`, rt)
	req := httptest.NewRequest("POST", "/auth/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rg.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["access_token"])
}

func TestRefresh_InvalidRefresh(t *testing.T) {
	syncer := profilesync.NewSyncer(nil, userstore.NewMemoryStore("direct"))
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	rg := gin.New()
	rg.POST("/auth/refresh", h.Refresh)

	req := httptest.NewRequest("POST", "/auth/refresh", strings.NewReader(`{"refresh_token":"does-not-exist"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rg.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_BlacklistsAccessAndDeletesRefresh(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	sessions.SetBlacklistClient(client)
	defer sessions.SetBlacklistClient(nil)

	syncer := profilesync.NewSyncer(nil, userstore.NewMemoryStore("direct"))
	sSvc := sessions.NewService(&fakeSessionsRepo{}, nil)
	h := NewAuthHandler(testAuthConfig(), syncer, sSvc, nil)

	rt, err := sSvc.CreateSession(context.Background(), "sub-1", "google", time.Hour)
	require.NoError(t, err)

	// craft an access token with exp in the future
	exp := time.Now().Add(2 * time.Minute).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"sub-1","exp":%d}`, exp)))
	access := "hdr." + payload + ".sig"

	rp := gin.New()
	h.Register(rp.Group("/"))

	body := fmt.Sprintf(`{"refresh_token":%q}`, rt)
	req := httptest.NewRequest("POST", "/auth/logout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	rp.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// refresh session should be deleted
	sess, err := sSvc.ValidateRefresh(context.Background(), rt)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// access token should be blacklisted in redis
	assert.True(t, m.Exists("blacklist:access:"+access))
}

func TestParseExpFromJWT_VariousFormats(t *testing.T) {
	// float64 exp
	extra := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"s1","exp":1700000000}`))
	tok := "hdr." + extra + ".sig"
	expTime, err := parseExpFromJWT(tok)
	if err != nil {
		t.Fatalf("unexpected error from parseExpFromJWT: %v", err)
	}
	if expTime.Unix() != 1700000000 {
		t.Fatalf("unexpected exp time: %v", expTime.Unix())
	}

	// missing exp
	nopayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"s2"}`))
	notok := "hdr." + nopayload + ".sig"
	if _, err := parseExpFromJWT(notok); err == nil {
		t.Fatalf("expected error for missing exp claim")
	}

	// malformed token
	if _, err := parseExpFromJWT("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func strPtr(s string) *string { return &s }
