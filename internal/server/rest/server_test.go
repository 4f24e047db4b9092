package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/logging"
	"github.com/dmitrijs2005/rentscope/internal/server/auth"
	"github.com/dmitrijs2005/rentscope/internal/server/config"
	"github.com/dmitrijs2005/rentscope/internal/server/password"
	"github.com/dmitrijs2005/rentscope/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rentscope/internal/server/revocation"
	"github.com/dmitrijs2005/rentscope/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRealService(t *testing.T, rv revocation.Revoker) *services.UserService {
	t.Helper()
	h, err := password.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)
	ts, err := auth.NewTokenService([]byte("test-secret"), 7*24*time.Hour)
	require.NoError(t, err)
	return services.NewUserService(repomanager.NewInMemoryRepositoryManager(), h, ts, rv,
		&config.Config{MinPasswordLength: 8}, logging.Nop())
}

func newRouter(t *testing.T, us UserService, origins ...string) *gin.Engine {
	t.Helper()
	return NewHTTPServer(":0", logging.Nop(), us, origins).Router()
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// --- fakes ---

type fakeUsers struct {
	regSess *services.Session
	regErr  error

	loginSess *services.Session
	loginErr  error

	identifyCalls int
	identifyID    *auth.Identity
	identifyErr   error

	logoutErr  error
	revocation bool
}

func (f *fakeUsers) Register(context.Context, string, string) (*services.Session, error) {
	return f.regSess, f.regErr
}
func (f *fakeUsers) Login(context.Context, string, string) (*services.Session, error) {
	return f.loginSess, f.loginErr
}
func (f *fakeUsers) Identify(context.Context, string) (*auth.Identity, error) {
	f.identifyCalls++
	return f.identifyID, f.identifyErr
}
func (f *fakeUsers) Logout(context.Context, *auth.Identity) error { return f.logoutErr }
func (f *fakeUsers) RevocationEnabled() bool                      { return f.revocation }

// --- tests ---

func TestHealth(t *testing.T) {
	r := newRouter(t, &fakeUsers{})
	w := do(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	r := newRouter(t, &fakeUsers{})
	w := do(r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestEndToEnd(t *testing.T) {
	r := newRouter(t, newRealService(t, nil))

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"password1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	t1, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, t1)

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"u@x.com","password":"password1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	t2, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, t2)

	w = do(r, http.MethodGet, "/api/me", "", bearer(t2))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode(t, w)
	assert.Equal(t, "u@x.com", me["email"])
	assert.NotEmpty(t, me["subject"])
	assert.Equal(t, me["subject"], me["userId"])

	w = do(r, http.MethodGet, "/api/me", "", bearer(t1))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/me", "", bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestSignup_Errors(t *testing.T) {
	r := newRouter(t, newRealService(t, nil))

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email and password required"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/signup", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email and password required"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"1234567"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at least 8 characters"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/signup", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/auth/signup", `{"email":"A@B.com","password":"12345678"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/auth/signup", `{"email":"a@b.com ","password":"12345678"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, w.Body.String())

	long := strings.Repeat("a", 300) + "@x.com"
	w = do(r, http.MethodPost, "/api/auth/signup", `{"email":"`+long+`","password":"password1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email is too long"}`, w.Body.String())
}

func TestPayloadTooLarge(t *testing.T) {
	r := newRouter(t, newRealService(t, nil))
	body := `{"email":"` + strings.Repeat("a", 5<<20) + `@x.com","password":"password1"}`

	for _, path := range []string{"/api/auth/signup", "/api/auth/login"} {
		t.Run(path+" with length", func(t *testing.T) {
			w := do(r, http.MethodPost, path, body, nil)
			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.JSONEq(t, `{"error":"Payload too large"}`, w.Body.String())
		})

		t.Run(path+" chunked", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = -1
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.JSONEq(t, `{"error":"Payload too large"}`, w.Body.String())
		})
	}

	// nothing was stored, so a normal signup for a short address still works
	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"password1"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	r := newRouter(t, newRealService(t, nil))

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"password1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	wrong := do(r, http.MethodPost, "/api/auth/login", `{"email":"u@x.com","password":"password2"}`, nil)
	unknown := do(r, http.MethodPost, "/api/auth/login", `{"email":"ghost@x.com","password":"password1"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, wrong.Body.String())
}

func TestInternalErrors(t *testing.T) {
	us := &fakeUsers{regErr: common.ErrorInternal, loginErr: common.ErrorInternal}
	r := newRouter(t, us)

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"password1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"u@x.com","password":"password1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestGate_MissingTokenSkipsVerification(t *testing.T) {
	us := &fakeUsers{}
	r := newRouter(t, us)

	for _, h := range []map[string]string{
		nil,
		{"Authorization": ""},
		{"Authorization": "Bearer "},
		{"Authorization": "Basic abc"},
		{"Authorization": "bearer abc"},
	} {
		w := do(r, http.MethodGet, "/api/me", "", h)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
	assert.Equal(t, 0, us.identifyCalls)
}

func TestGate_ExpiredToken(t *testing.T) {
	us := &fakeUsers{identifyErr: errorsJoin(common.ErrInvalidToken, common.ErrTokenExpired)}
	r := newRouter(t, us)

	w := do(r, http.MethodGet, "/api/me", "", bearer("expired"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, us.identifyCalls)
}

func TestGate_AttachesIdentityToContext(t *testing.T) {
	want := &auth.Identity{Subject: "id-1", Email: "u@x.com"}
	s := NewHTTPServer(":0", logging.Nop(), &fakeUsers{identifyID: want}, nil)

	r := gin.New()
	var got *auth.Identity
	r.GET("/x", s.authGate(), func(c *gin.Context) {
		got, _ = IdentityFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodGet, "/x", "", bearer("tok"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, want, got)
}

func TestLogout(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newRouter(t, newRealService(t, revocation.NewRedisDenylist(rdb)))

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"u@x.com","password":"password1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tok, _ := decode(t, w)["token"].(string)

	w = do(r, http.MethodPost, "/api/auth/logout", "", bearer(tok))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/me", "", bearer(tok))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_NotRoutedWithoutRevocation(t *testing.T) {
	r := newRouter(t, newRealService(t, nil))

	w := do(r, http.MethodPost, "/api/auth/logout", "", bearer("x"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	t.Run("empty allow-list reflects any origin", func(t *testing.T) {
		r := newRouter(t, &fakeUsers{})
		w := do(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "http://anywhere.test"})
		assert.Equal(t, "http://anywhere.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow-list", func(t *testing.T) {
		r := newRouter(t, &fakeUsers{}, "http://app.test")

		w := do(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "http://app.test"})
		assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

		w = do(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "http://evil.test"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(r, http.MethodGet, "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		r := newRouter(t, &fakeUsers{}, "http://app.test")
		w := do(r, http.MethodOptions, "/api/auth/login", "", map[string]string{"Origin": "http://app.test"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization"))
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", logging.Nop(), &fakeUsers{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
