package auth

// User is the authenticated identity as returned by the auth backend.
// Intentionally minimal: no catch-all claims map.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Tokens carries the credentials issued by the auth backend.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account-creation request payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Grant is a successful login or registration result.
type Grant struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}
