package folders

import (
	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// CanAccess is the permission evaluator: a pure function over folder, actor
// and requested capability. It is stateless and re-run on every access;
// decisions are never cached across mutations since permission lists and
// visibility may change between calls.
//
// Decision order, first match wins:
//  1. global administrator role
//  2. public folder, read capability
//  3. creator (full capability regardless of explicit lists)
//  4. explicit membership in the capability's grant set
func CanAccess(folder *models.Folder, actor models.Actor, capability models.Capability) bool {
	if actor.IsAdmin() {
		return true
	}
	if capability == models.CapabilityRead && folder.IsPublic {
		return true
	}
	if actor.ID == folder.CreatedBy {
		return true
	}
	return folder.Permissions.Set(capability).Has(actor.ID)
}

// FilterReadable returns the folders the actor can read, preserving order.
// An empty result is a valid result, not an error.
func FilterReadable(list []models.Folder, actor models.Actor) []models.Folder {
	visible := make([]models.Folder, 0, len(list))
	for _, f := range list {
		if f.Tombstoned() {
			continue
		}
		if CanAccess(&f, actor, models.CapabilityRead) {
			visible = append(visible, f)
		}
	}
	return visible
}
