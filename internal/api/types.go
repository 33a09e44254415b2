package api

import "time"

// PaginatedList is the envelope the API wraps collections in. Projections
// into table rows go through the Items field; a zero-value list projects to
// an empty row set.
type PaginatedList[T any] struct {
	Items     []T     `json:"items"`
	NextToken *string `json:"next_token"`
	Limit     *int    `json:"limit"`
}

// Host is a machine enrolled in the fleet.
type Host struct {
	ID           string             `json:"id"`
	Hostname     string             `json:"hostname"`
	OSName       string             `json:"os_name"`
	OSVersion    string             `json:"os_version"`
	Architecture string             `json:"architecture"`
	Ifaces       []NetworkInterface `json:"ifaces"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	LastSeenAt   time.Time          `json:"last_seen_at"`
}

// NetworkInterface is one network interface of a host.
type NetworkInterface struct {
	ID      string   `json:"id"`
	Iface   string   `json:"iface"`
	State   string   `json:"state"` // "up", "down", or "unknown"
	IPAddrs []string `json:"ip_addrs"`
}

// ActivationKey bootstraps host agent registration.
type ActivationKey struct {
	ID          string    `json:"id"`
	KeyID       string    `json:"key_id"`
	Description string    `json:"description"`
	Used        bool      `json:"used"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateActivationKeyRequest is the body for creating an activation key.
type CreateActivationKeyRequest struct {
	KeyID       string `json:"key_id"`
	Description string `json:"description"`
}

// CreateActivationKeyResponse carries the created key plus its token. The
// token is returned exactly once and can never be fetched again.
type CreateActivationKeyResponse struct {
	Key   ActivationKey `json:"key"`
	Token string        `json:"token"`
}

// CA is a certificate authority managed by the fleet.
type CA struct {
	ID          string    `json:"id"`
	CertPEM     string    `json:"cert_pem"`
	Fingerprint string    `json:"fingerprint"` // format: sha256:<hex>
	CreatedAt   time.Time `json:"created_at"`
}

// User is the profile of a console user.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginRequest is the body for interactive login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session material for an interactive login. The
// session itself travels in a cookie; the CSRF token must accompany every
// mutating request.
type LoginResponse struct {
	TokenType string `json:"token_type"`
	CSRFToken string `json:"csrf_token"`
}

// ListParams are the pagination parameters accepted by list endpoints.
type ListParams struct {
	Limit     int
	NextToken string
}
