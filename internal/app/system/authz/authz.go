// internal/app/system/authz/authz.go
package authz

import "strings"

// Action names the operations gated by role checks. Evaluated before
// dispatch; handlers never consult ambient framework state.
type Action string

const (
	ActionRegister   Action = "register"
	ActionList       Action = "list"
	ActionRetrieve   Action = "retrieve"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionBulkImport Action = "bulk_import"
)

// Actor is the minimal identity needed for an authorization decision.
// A zero Actor is an anonymous visitor.
type Actor struct {
	ID      string // account id ("" when anonymous)
	Role    string // learner | instructor | institute | admin
	IsAdmin bool
}

// Anonymous is the actor for unauthenticated requests.
var Anonymous = Actor{}

// Allowed is a pure mapping from (actor, action, subject) to a decision.
//
//   - register is open to everyone, including anonymous visitors
//   - admins may perform every action
//   - authenticated users may retrieve and update their own account
//     (subjectID is the account the action targets; "" for collection
//     level actions)
//   - list, delete, and bulk_import are admin-only
func Allowed(a Actor, action Action, subjectID string) bool {
	if action == ActionRegister {
		return true
	}
	if a.IsAdmin || strings.EqualFold(a.Role, "admin") {
		return true
	}
	if a.ID == "" {
		return false
	}
	switch action {
	case ActionRetrieve, ActionUpdate:
		return subjectID != "" && a.ID == subjectID
	default:
		return false
	}
}
