package user

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID  int64
	IsAdmin bool
	IsOwner bool
}

func (p Principal) Authenticated() bool {
	return p.UserID > 0
}

// CanManageMatches covers match CRUD and outcome recording.
func (p Principal) CanManageMatches() bool {
	return p.Authenticated() && (p.IsAdmin || p.IsOwner)
}

// CanManageAccounts covers deleting users, toggling admin and the championship reset.
func (p Principal) CanManageAccounts() bool {
	return p.Authenticated() && p.IsOwner
}

// CanEditName reports whether p may rename target. Users rename themselves,
// admins rename anyone but the owner, and only the owner renames the owner.
func (p Principal) CanEditName(target User) bool {
	if !p.Authenticated() {
		return false
	}
	if p.UserID == target.ID {
		return true
	}
	if target.IsOwner {
		return false
	}
	return p.IsAdmin || p.IsOwner
}
