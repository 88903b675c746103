// Package capsule implements the capsule lifecycle and the read/write
// services over the store.
package capsule

import "capsuledb/pkg/models"

// DeriveStatus computes a capsule's status for the given viewer at the
// given time. Status is never persisted as mutated: every read path calls
// this on the stored record.
//
// UnlockPending means the unlock date has passed but the viewer is not
// authorized to see the content. Archived is never produced here; it is a
// legal value reserved for external curation that no operation assigns.
func DeriveStatus(c *models.TimeCapsule, now uint64, viewer string) models.CapsuleStatus {
	if now < c.UnlockDate {
		return models.StatusSealed
	}
	if viewableBy(c, viewer) {
		return models.StatusUnlocked
	}
	return models.StatusUnlockPending
}

// viewableBy applies the access policy, with one addition on top of the
// plain policy check: a capsule's creator can always view it once the
// unlock date has passed.
func viewableBy(c *models.TimeCapsule, viewer string) bool {
	if viewer != "" && viewer == c.Creator {
		return true
	}
	return c.AccessControl.IsViewable(viewer)
}
