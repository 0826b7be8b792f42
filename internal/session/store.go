package session

import (
	"net/http"
	"time"
)

// DefaultMaxAge is the session lifetime: 30 days.
const DefaultMaxAge = 30 * 24 * 60 * 60

// Options control the cookie the session travels in.
type Options struct {
	Name     string
	Path     string
	MaxAge   int // seconds
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// DefaultOptions returns the production cookie settings. Secure is
// configurable only so local plain-HTTP development works.
func DefaultOptions(secure bool) Options {
	return Options{
		Name:     "RJ_session",
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Store gives get/set/destroy semantics over the session payload carried by
// a request's cookie header.
type Store struct {
	codec *Codec
	opts  Options
}

// NewStore creates a session store with the given codec and cookie options.
func NewStore(codec *Codec, opts Options) *Store {
	if opts.Name == "" {
		opts = DefaultOptions(opts.Secure)
	}
	return &Store{codec: codec, opts: opts}
}

// Session holds a request-scoped payload plus the store needed to commit it.
type Session struct {
	store *Store
	data  Payload
}

// Get returns the session decoded from the request's cookie. A missing or
// unverifiable cookie yields a fresh empty session.
func (s *Store) Get(r *http.Request) *Session {
	var raw string
	if cookie, err := r.Cookie(s.opts.Name); err == nil {
		raw = cookie.Value
	}
	return &Session{store: s, data: s.codec.Decode(raw)}
}

// New returns an empty session not tied to any request.
func (s *Store) New() *Session {
	return &Session{store: s, data: Payload{}}
}

// Destroy returns a cookie that instructs the client to clear the session
// immediately, regardless of what the session held.
func (s *Store) Destroy() *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.Name,
		Value:    "",
		Path:     s.opts.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HttpOnly,
		SameSite: s.opts.SameSite,
	}
}

// Get returns the value stored under key, or "" when absent.
func (se *Session) Get(key string) string {
	return se.data[key]
}

// Set stores a value under key.
func (se *Session) Set(key, value string) {
	se.data[key] = value
}

// Commit signs the payload and returns the Set-Cookie to send to the client.
func (se *Session) Commit() (*http.Cookie, error) {
	opts := se.store.opts
	value, err := se.store.codec.Encode(se.data, time.Duration(opts.MaxAge)*time.Second)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     opts.Path,
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: opts.HttpOnly,
		SameSite: opts.SameSite,
	}, nil
}
