package domain

import "github.com/courseloft/courseloft/pkg/tokenx"

// Allow is the platform's ownership rule: admins may act on any resource,
// everyone else only on resources they own. Role checks are unconditional
// overrides; the owner comparison only matters for non-admins.
func Allow(id tokenx.Identity, ownerID string) bool {
	if id.Role == tokenx.RoleAdmin {
		return true
	}
	return id.ID != "" && id.ID == ownerID
}
