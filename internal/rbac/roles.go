package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts and of
// the employee directory rows.
const (
	RoleAdmin    = "ADMIN"
	RoleEditor   = "EDITOR"
	RoleReporter = "REPORTER"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
