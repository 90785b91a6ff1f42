package engine

import (
	"github.com/cayden0207/ctg-talents/internal/domain"
)

// Action names an engine entry point. The same values double as audit action
// tags so the log reads in the policy's vocabulary.
type Action string

const (
	ActionCreate   Action = "CREATE"
	ActionUpdate   Action = "UPDATE"
	ActionStatus   Action = "STATUS_CHANGE"
	ActionJVStatus Action = "JV_STATUS"
	ActionAllocate Action = "ALLOCATE"
	ActionAccept   Action = "JV_ACCEPT"
	ActionReject   Action = "JV_REJECT"
	ActionReview   Action = "REVIEW"
	ActionView     Action = "VIEW"
)

// Authorize is the single policy gate every entry point goes through.
// target is nil for creations; next is only meaningful for status changes.
func Authorize(a domain.Actor, action Action, target *domain.Candidate, next domain.Status) error {
	switch action {
	case ActionCreate, ActionUpdate, ActionAllocate:
		if a.Role != domain.RoleHQAdmin {
			return forbiddenf("%s requires HQ role", action)
		}
		return nil

	case ActionStatus, ActionJVStatus:
		if a.Role == domain.RoleHQAdmin {
			return nil
		}
		if a.Role != domain.RoleJVPartner || a.JvID == 0 {
			return forbiddenf("status change requires HQ or a linked JV account")
		}
		if !domain.JVMutable(next) {
			return forbiddenf("status %s cannot be set by a JV", next)
		}
		if target == nil || target.CurrentJvID == nil || *target.CurrentJvID != a.JvID {
			return forbiddenf("candidate is not placed with your JV")
		}
		return nil

	case ActionAccept, ActionReject:
		if a.Role != domain.RoleJVPartner || a.JvID == 0 {
			return forbiddenf("%s requires a linked JV account", action)
		}
		return nil

	case ActionReview, ActionView:
		if target != nil && !target.VisibleTo(a) {
			return forbiddenf("candidate is not visible to you")
		}
		return nil
	}
	return forbiddenf("unknown action %s", action)
}
