// Package access holds the organization role hierarchy and the permission
// matrix shared by the API server and its clients. Every "may user A act on
// user B" decision goes through Compare so that gating stays consistent.
package access

// Role is a member's role inside an organization (tenant)
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
)

// Level is the position of a role in the hierarchy. Higher ranks above lower.
type Level int

const (
	LevelNone    Level = 0
	LevelViewer  Level = 20
	LevelMember  Level = 40
	LevelManager Level = 60
	LevelAdmin   Level = 80
	LevelOwner   Level = 100
)

var levels = map[Role]Level{
	RoleOwner:   LevelOwner,
	RoleAdmin:   LevelAdmin,
	RoleManager: LevelManager,
	RoleMember:  LevelMember,
	RoleViewer:  LevelViewer,
}

// Level returns the hierarchy level of the role, LevelNone if unknown
func (r Role) Level() Level {
	return levels[r]
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := levels[r]
	return ok
}

// Roles returns every known role ordered from highest to lowest
func Roles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleManager, RoleMember, RoleViewer}
}

// Verdict is the outcome of an authorization comparison
type Verdict int

const (
	Deny Verdict = iota
	Allow
)

// Allowed reports whether the verdict permits the action
func (v Verdict) Allowed() bool {
	return v == Allow
}

func (v Verdict) String() string {
	if v == Allow {
		return "allow"
	}
	return "deny"
}

// Compare decides whether an actor at level actor may act on a member at
// level target. The organization owner may always act; anyone else needs a
// strictly higher level than the target. Unknown levels are denied.
func Compare(actor, target Level) Verdict {
	if actor == LevelOwner {
		return Allow
	}
	if actor <= LevelNone {
		return Deny
	}
	if actor > target {
		return Allow
	}
	return Deny
}

// CanAssign decides whether actor may move a member from role current to
// role next. The actor must outrank both the current and the requested role.
func CanAssign(actor, current, next Role) Verdict {
	if !next.Valid() {
		return Deny
	}
	if Compare(actor.Level(), current.Level()) == Deny {
		return Deny
	}
	return Compare(actor.Level(), next.Level())
}
