package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lucid-sh/console/internal/api"
)

const sessionCookie = "lucid_session"

// LucidAPI is an in-memory stand-in for the fleet-management API. It
// enforces the same session plus CSRF-header contract as the real thing
// and supports per-endpoint failure injection.
type LucidAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	hosts    []api.Host
	keys     []api.ActivationKey
	cas      []api.CA
	users    map[string]string
	sessions map[string]string // session cookie -> csrf token
	keySeq   int

	failList   *api.Error
	failCreate *api.Error
	failDelete *api.Error
}

// NewLucidAPI starts a fake API server. It is shut down via t.Cleanup.
func NewLucidAPI(t testing.TB) *LucidAPI {
	t.Helper()

	f := &LucidAPI{
		users:    make(map[string]string),
		sessions: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Get("/api/v1/hosts", f.listHosts)
	r.Get("/api/v1/activation-keys", f.listKeys)
	r.Post("/api/v1/activation-keys", f.createKey)
	r.Delete("/api/v1/activation-keys/{id}", f.deleteKey)
	r.Get("/api/v1/cas", f.listCAs)
	r.Post("/v1/auth/login", f.login)
	r.Post("/v1/auth/logout", f.logout)
	r.Get("/v1/auth/me", f.whoami)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the fake API's base URL.
func (f *LucidAPI) URL() string { return f.Server.URL }

// AddUser registers login credentials.
func (f *LucidAPI) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// AddHost seeds a host into the collection.
func (f *LucidAPI) AddHost(h api.Host) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hosts = append(f.hosts, h)
}

// AddKey seeds an activation key into the collection.
func (f *LucidAPI) AddKey(k api.ActivationKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, k)
}

// AddCA seeds a certificate authority into the collection.
func (f *LucidAPI) AddCA(ca api.CA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cas = append(f.cas, ca)
}

// Keys returns a copy of the current key collection.
func (f *LucidAPI) Keys() []api.ActivationKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ActivationKey{}, f.keys...)
}

// FailList makes list endpoints fail with err until cleared with nil.
func (f *LucidAPI) FailList(err *api.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failList = err
}

// FailCreate makes key creation fail with err until cleared with nil.
func (f *LucidAPI) FailCreate(err *api.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCreate = err
}

// FailDelete makes key deletion fail with err until cleared with nil.
func (f *LucidAPI) FailDelete(err *api.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDelete = err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, apiErr *api.Error) {
	writeJSON(w, status, apiErr)
}

// requireCSRF checks the session cookie and X-CSRF-Token header on
// mutating requests.
func (f *LucidAPI) requireCSRF(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, &api.Error{Message: "Unauthorized", Code: "unauthorized"})
		return false
	}
	f.mu.Lock()
	csrf, ok := f.sessions[cookie.Value]
	f.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, &api.Error{Message: "Unauthorized", Code: "unauthorized"})
		return false
	}
	if r.Header.Get("X-CSRF-Token") != csrf {
		writeError(w, http.StatusForbidden, &api.Error{Message: "CSRF token mismatch", Code: "forbidden"})
		return false
	}
	return true
}

func (f *LucidAPI) listHosts(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	failure := f.failList
	items := append([]api.Host{}, f.hosts...)
	f.mu.Unlock()

	if failure != nil {
		writeError(w, http.StatusInternalServerError, failure)
		return
	}
	writeJSON(w, http.StatusOK, api.PaginatedList[api.Host]{Items: items})
}

func (f *LucidAPI) listKeys(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	failure := f.failList
	items := append([]api.ActivationKey{}, f.keys...)
	f.mu.Unlock()

	if failure != nil {
		writeError(w, http.StatusInternalServerError, failure)
		return
	}
	writeJSON(w, http.StatusOK, api.PaginatedList[api.ActivationKey]{Items: items})
}

func (f *LucidAPI) listCAs(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	failure := f.failList
	items := append([]api.CA{}, f.cas...)
	f.mu.Unlock()

	if failure != nil {
		writeError(w, http.StatusInternalServerError, failure)
		return
	}
	writeJSON(w, http.StatusOK, api.PaginatedList[api.CA]{Items: items})
}

func (f *LucidAPI) createKey(w http.ResponseWriter, r *http.Request) {
	if !f.requireCSRF(w, r) {
		return
	}

	var req api.CreateActivationKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.KeyID == "" {
		writeError(w, http.StatusUnprocessableEntity, &api.Error{Message: "key_id is required", Code: "invalid_request"})
		return
	}

	f.mu.Lock()
	if failure := f.failCreate; failure != nil {
		f.mu.Unlock()
		writeError(w, http.StatusConflict, failure)
		return
	}
	f.keySeq++
	key := api.ActivationKey{
		ID:          fmt.Sprintf("01HKEY%03d", f.keySeq),
		KeyID:       req.KeyID,
		Description: req.Description,
	}
	f.keys = append(f.keys, key)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, api.CreateActivationKeyResponse{
		Key:   key,
		Token: "tok_" + uuid.NewString(),
	})
}

func (f *LucidAPI) deleteKey(w http.ResponseWriter, r *http.Request) {
	if !f.requireCSRF(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	if failure := f.failDelete; failure != nil {
		f.mu.Unlock()
		writeError(w, http.StatusConflict, failure)
		return
	}
	kept := f.keys[:0]
	found := false
	for _, k := range f.keys {
		if k.ID == id {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	f.keys = kept
	f.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, &api.Error{Message: "Activation key not found", Code: "not_found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *LucidAPI) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, &api.Error{Message: "malformed body", Code: "invalid_request"})
		return
	}

	f.mu.Lock()
	password, ok := f.users[req.Username]
	f.mu.Unlock()
	if !ok || password != req.Password {
		writeError(w, http.StatusUnauthorized, &api.Error{Message: "Invalid username or password", Code: "unauthorized"})
		return
	}

	session := uuid.NewString()
	csrf := uuid.NewString()
	f.mu.Lock()
	f.sessions[session] = csrf
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: session, Path: "/"})
	writeJSON(w, http.StatusCreated, api.LoginResponse{TokenType: "Session", CSRFToken: csrf})
}

func (f *LucidAPI) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		f.mu.Lock()
		delete(f.sessions, cookie.Value)
		f.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *LucidAPI) whoami(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, &api.Error{Message: "Unauthorized", Code: "unauthorized"})
		return
	}
	f.mu.Lock()
	_, ok := f.sessions[cookie.Value]
	f.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, &api.Error{Message: "Unauthorized", Code: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, api.User{ID: "u1", DisplayName: "Admin", Email: "admin@lucid.sh"})
}
