package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfEcho() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func TestCSRFProtection_IssuesToken(t *testing.T) {
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, cookie.Value, w.Body.String())
}

func TestCSRFProtection_ReusesCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, r)

	assert.Equal(t, "existing", w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	tests := []struct {
		name   string
		header string
		form   url.Values
		want   int
	}{
		{name: "header token", header: "tok", want: http.StatusOK},
		{name: "form token", form: url.Values{CSRFFormField: {"tok"}}, want: http.StatusOK},
		{name: "wrong header", header: "other", want: http.StatusForbidden},
		{name: "wrong form token", form: url.Values{CSRFFormField: {"other"}}, want: http.StatusForbidden},
		{name: "missing token", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.form != nil {
				body = strings.NewReader(tt.form.Encode())
			} else {
				body = strings.NewReader("")
			}
			r := httptest.NewRequest(http.MethodPost, "/admin/skills", body)
			if tt.form != nil {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if tt.header != "" {
				r.Header.Set(CSRFHeaderName, tt.header)
			}
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})

			w := httptest.NewRecorder()
			csrfEcho().ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCSRFProtection_FreshCookieCannotAuthorizePost(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	r.Header.Set(CSRFHeaderName, "guessed")
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(r))
	r.Header.Set("X-Forwarded-Proto", "https, http")
	assert.True(t, isSecureRequest(r))
}
