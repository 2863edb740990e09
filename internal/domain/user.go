package domain

// Role names a user's permission level. Only RoleAdmin is special.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleTech  Role = "tech"
)

// User is a shop employee who can log in on a handheld.
type User struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Role  Role    `json:"role"`
	PIN   string  `json:"pin"`
	NfcID *string `json:"nfcId"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MatchesBadge reports whether a scanned badge identifier resolves to u,
// either because the badge encodes u's own id or because it was linked.
func (u User) MatchesBadge(badgeID string) bool {
	if badgeID == "" {
		return false
	}
	return u.ID == badgeID || (u.NfcID != nil && *u.NfcID == badgeID)
}
