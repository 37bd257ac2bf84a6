package routes_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	routes "restaurant-app/internal/app/http"
	"restaurant-app/internal/app/http/middleware"
	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testWebhookSecret = "whsec_test"
	testPriceID       = "price_premium"
)

type testApp struct {
	t        *testing.T
	db       *gorm.DB
	provider *testutil.FakeProvider
	sessions *session.Manager
	handler  http.Handler
}

func newTestApp(t *testing.T, opts ...func(*routes.Deps)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	provider := testutil.NewFakeProvider()
	resolver := billing.NewResolver(db, provider)
	sessions := session.NewManager("test-secret", time.Hour, false)

	deps := routes.Deps{
		DB:            db,
		Sessions:      sessions,
		Billing:       billing.NewService(db, provider, resolver, testPriceID),
		Resolver:      resolver,
		WebhookSecret: testWebhookSecret,
		LoginLimiter:  middleware.NewRateLimiter(1000, time.Minute),
		Location:      time.UTC,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	handler := routes.Handler(deps)

	return &testApp{t: t, db: db, provider: provider, sessions: sessions, handler: handler}
}

// as identifies the caller of a request. The zero value is a guest.
type as struct {
	realm access.Realm
	id    uint
}

var guest = as{}

func member(id uint) as { return as{realm: access.RealmMember, id: id} }
func admin(id uint) as  { return as{realm: access.RealmAdmin, id: id} }

func (a *testApp) request(method, path string, form url.Values, who as, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if who.realm != access.RealmNone {
		cookie, err := a.sessions.Cookie(who.realm, who.id)
		require.NoError(a.t, err)
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, who as) *httptest.ResponseRecorder {
	return a.request(http.MethodGet, path, nil, who)
}

func (a *testApp) postJSON(path string, body any, who as) *httptest.ResponseRecorder {
	a.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(a.t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if who.realm != access.RealmNone {
		cookie, err := a.sessions.Cookie(who.realm, who.id)
		require.NoError(a.t, err)
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// flashOf returns the flash message set by the response, if any.
func flashOf(t *testing.T, w *httptest.ResponseRecorder) *web.Flash {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == web.FlashCookieName() && c.Value != "" {
			f, err := web.DecodeFlash(c.Value)
			require.NoError(t, err)
			return f
		}
	}
	return nil
}

func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
