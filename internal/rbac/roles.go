package rbac

// Role names. Keep these stable; they are embedded in issued tokens.
const (
	RoleClient    = "client"
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
