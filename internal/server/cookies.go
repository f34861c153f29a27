package server

import (
	"net/http"
	"time"
)

const cookieMaxAge = 365 * 24 * time.Hour

// cookieStore is a preference.Store scoped to one request. Reads come from
// the request cookies, writes are sent back as Set-Cookie headers.
type cookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	values map[string]string
}

func newCookieStore(w http.ResponseWriter, r *http.Request) *cookieStore {
	return &cookieStore{w: w, r: r, values: make(map[string]string)}
}

func (s *cookieStore) Get(key string) (string, bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *cookieStore) Set(key, value string) {
	s.values[key] = value
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
