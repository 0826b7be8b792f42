package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	codec, err := NewCodec(testSecret)
	if err != nil {
		t.Fatalf("NewCodec() unexpected error: %v", err)
	}
	return NewStore(codec, DefaultOptions(true))
}

func TestStoreCommitAndGet(t *testing.T) {
	store := newTestStore(t)

	sess := store.New()
	sess.Set("userId", "01HZXW5YJ3E8QJ0VPXK9T2M4RS")

	cookie, err := sess.Commit()
	if err != nil {
		t.Fatalf("Commit() unexpected error: %v", err)
	}

	if cookie.Name != "RJ_session" {
		t.Errorf("cookie name = %q, want RJ_session", cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != DefaultMaxAge {
		t.Errorf("cookie max-age = %d, want %d", cookie.MaxAge, DefaultMaxAge)
	}
	if !cookie.Secure || !cookie.HttpOnly {
		t.Error("cookie must be Secure and HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie same-site = %v, want Lax", cookie.SameSite)
	}

	// A request carrying the cookie resolves back to the same payload
	req := httptest.NewRequest(http.MethodGet, "/jokes", nil)
	req.AddCookie(cookie)

	got := store.Get(req)
	if got.Get("userId") != "01HZXW5YJ3E8QJ0VPXK9T2M4RS" {
		t.Errorf("Get() userId = %q, want the committed value", got.Get("userId"))
	}
}

func TestStoreGetWithoutCookie(t *testing.T) {
	store := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/jokes", nil)
	sess := store.Get(req)
	if sess.Get("userId") != "" {
		t.Errorf("Get() on a bare request returned userId %q, want empty", sess.Get("userId"))
	}
}

func TestStoreGetWithTamperedCookie(t *testing.T) {
	store := newTestStore(t)

	sess := store.New()
	sess.Set("userId", "someone")
	cookie, err := sess.Commit()
	if err != nil {
		t.Fatalf("Commit() unexpected error: %v", err)
	}

	cookie.Value = cookie.Value + "x"
	req := httptest.NewRequest(http.MethodGet, "/jokes", nil)
	req.AddCookie(cookie)

	if got := store.Get(req).Get("userId"); got != "" {
		t.Errorf("tampered cookie resolved to userId %q, want empty", got)
	}
}

func TestStoreDestroy(t *testing.T) {
	store := newTestStore(t)

	cookie := store.Destroy()
	if cookie.Name != "RJ_session" {
		t.Errorf("clearing cookie name = %q, want RJ_session", cookie.Name)
	}
	if cookie.Value != "" {
		t.Errorf("clearing cookie value = %q, want empty", cookie.Value)
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("clearing cookie max-age = %d, want negative", cookie.MaxAge)
	}
}
