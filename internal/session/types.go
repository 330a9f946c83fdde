package session

// Area references the organizational unit an identity belongs to.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// Identity is the authenticated user as returned by the server. Exactly one
// identity is active at a time; it is replaced wholesale on refresh.
type Identity struct {
	ID    string   `json:"id"`
	Names string   `json:"nombres"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Area  Area     `json:"area"`
}

// Credential is the opaque bearer token pair. Owned exclusively by the Store.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Session bundles identity and credential for persistence.
type Session struct {
	Identity   Identity   `json:"identity"`
	Credential Credential `json:"credential"`
}
