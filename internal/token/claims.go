package token

import "github.com/golang-jwt/jwt/v5"

// Class selects which signing secret and default lifetime a token is
// bound to. Classes are isolated: a token issued under one class never
// verifies under another, because every class has its own secret.
type Class string

const (
	// ClassApp gates anonymous actions (login/register) before any user
	// session exists. It proves nothing beyond "this client recently
	// loaded the page".
	ClassApp Class = "app"
	// ClassAuth authenticates API calls for a signed-in user.
	ClassAuth Class = "auth"
	// ClassRefresh re-mints auth tokens without re-entering credentials.
	ClassRefresh Class = "refresh"
	// ClassInternal authenticates service-to-service calls.
	ClassInternal Class = "internal"
)

const RoleClient = "client"

// Identity is the payload embedded in auth and refresh tokens. All
// fields are informational and trusted only because the signature is
// valid; there is no server-side session record behind them.
type Identity struct {
	UID     string
	Email   string
	Role    string
	Name    string
	Company string

	// Version is a revocation hook: bumping the stored version per user
	// would invalidate outstanding tokens. Carried but not enforced yet.
	Version int
}

type identityClaims struct {
	jwt.RegisteredClaims

	UID     string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Version int    `json:"version,omitempty"`
}

func (c identityClaims) identity() Identity {
	id := Identity{
		UID:     c.UID,
		Email:   c.Email,
		Role:    c.Role,
		Name:    c.Name,
		Company: c.Company,
		Version: c.Version,
	}
	if id.Role == "" {
		id.Role = RoleClient
	}
	return id
}

type internalClaims struct {
	jwt.RegisteredClaims

	Origin string `json:"origin"`
	UID    string `json:"uid"`
}
