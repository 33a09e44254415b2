package common

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const csrfSessionKey = "csrf_token"

// CSRFToken returns the session's form CSRF token, minting one on first
// use.
func CSRFToken(w http.ResponseWriter, r *http.Request, store sessions.Store) string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	if token, ok := session.Values[csrfSessionKey].(string); ok && token != "" {
		return token
	}
	token := uuid.NewString()
	session.Values[csrfSessionKey] = token
	if err := session.Save(r, w); err != nil {
		return ""
	}
	return token
}

// CheckCSRF validates the csrf_token form field against the session.
func CheckCSRF(r *http.Request, store sessions.Store) bool {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return false
	}
	expected, ok := session.Values[csrfSessionKey].(string)
	if !ok || expected == "" {
		return false
	}
	got := r.PostFormValue("csrf_token")
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
