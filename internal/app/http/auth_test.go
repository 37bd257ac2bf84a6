package routes_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	routes "restaurant-app/internal/app/http"
	"restaurant-app/internal/app/http/middleware"
	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrationForm(email string) url.Values {
	return url.Values{
		"name":                  {"Hanako Sato"},
		"kana":                  {"Sato Hanako"},
		"email":                 {email},
		"password":              {"secret-pass"},
		"password_confirmation": {"secret-pass"},
		"postal_code":           {"4600008"},
		"address":               {"Naka, Nagoya"},
		"phone_number":          {"0521234567"},
	}
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterLogsMemberIn(t *testing.T) {
	app := newTestApp(t)

	w := app.request(http.MethodPost, "/register", registrationForm("Hanako@Example.com"), guest)
	requireRedirect(t, w, "/")
	cookie := sessionCookie(w.Result(), session.MemberCookie)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)

	var m users.Member
	require.NoError(t, app.db.Where("email = ?", "hanako@example.com").First(&m).Error)
	assert.Nil(t, m.Birthday)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)
	existing := testutil.CreateMember(t, app.db)

	cases := map[string]struct {
		form  url.Values
		field string
	}{
		"taken email":          {registrationForm(existing.Email), "email"},
		"short password":       {withField(withField(registrationForm("a@example.com"), "password", "short"), "password_confirmation", "short"), "password"},
		"confirmation differs": {withField(registrationForm("b@example.com"), "password_confirmation", "other-pass"), "password_confirmation"},
		"postal code 6":        {withField(registrationForm("c@example.com"), "postal_code", "460000"), "postal_code"},
		"postal code 8":        {withField(registrationForm("d@example.com"), "postal_code", "46000081"), "postal_code"},
		"phone too short":      {withField(registrationForm("e@example.com"), "phone_number", "052123"), "phone_number"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := app.request(http.MethodPost, "/register", tc.form, guest)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Contains(t, body["errors"], tc.field)
			assert.NotContains(t, body["old"], "password")
		})
	}
	assert.Equal(t, int64(1), count(t, app.db, &users.Member{}, ""))
}

func TestMemberLogin(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)

	w := app.request(http.MethodPost, "/login", url.Values{"email": {m.Email}, "password": {"wrong-password"}}, guest)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["errors"], "email")
	assert.Nil(t, sessionCookie(w.Result(), session.MemberCookie))

	w = app.request(http.MethodPost, "/login", url.Values{"email": {m.Email}, "password": {testutil.Password}}, guest)
	requireRedirect(t, w, "/")
	require.NotNil(t, sessionCookie(w.Result(), session.MemberCookie))

	w = app.request(http.MethodPost, "/logout", nil, member(m.ID))
	requireRedirect(t, w, "/")
	cleared := sessionCookie(w.Result(), session.MemberCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestAdministratorsCannotUseMemberLogin(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)

	w := app.request(http.MethodPost, "/login", url.Values{"email": {a.Email}, "password": {testutil.Password}}, guest)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = app.request(http.MethodPost, "/admin/login", url.Values{"email": {a.Email}, "password": {testutil.Password}}, guest)
	requireRedirect(t, w, "/admin")
	require.NotNil(t, sessionCookie(w.Result(), session.AdminCookie))

	requireRedirect(t, app.request(http.MethodPost, "/admin/logout", nil, admin(a.ID)), "/admin/login")
}

func TestLoginIsRateLimited(t *testing.T) {
	app := newTestApp(t, func(d *routes.Deps) {
		d.LoginLimiter = middleware.NewRateLimiter(2, time.Minute)
	})
	form := url.Values{"email": {"nobody@example.com"}, "password": {"whatever-pass"}}

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnprocessableEntity, app.request(http.MethodPost, "/login", form, guest).Code)
	}
	w := app.request(http.MethodPost, "/login", form, guest)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestGoogleRoutesAbsentWhenDisabled(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, app.get("/auth/google", guest).Code)
}
