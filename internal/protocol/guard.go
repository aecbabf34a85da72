package protocol

// Access is the authorization class of an operation.
type Access int

const (
	// AccessPublic operations require no authentication.
	AccessPublic Access = iota
	// AccessAuthenticated operations require a logged-in session.
	AccessAuthenticated
	// AccessSelfOrAdmin operations require the actor to be the subject's
	// owner, or an administrator by current persisted role.
	AccessSelfOrAdmin
	// AccessAdminOnly operations require the administrator role.
	AccessAdminOnly
)

// Classify maps an operation onto its authorization class.
func Classify(operation string) Access {
	switch operation {
	case OpUserRegister, OpUserLogin, OpStationList, OpRegionList:
		return AccessPublic
	case OpUserDelete, OpUserModify, OpStationDelete, OpStationModify, OpStationToken:
		return AccessSelfOrAdmin
	case OpUserList, OpStationApprove, OpRegionCreate, OpRegionModify, OpRegionDelete:
		return AccessAdminOnly
	default:
		return AccessAuthenticated
	}
}

// Decision is the guard's verdict. The guard never mutates state and never
// panics; denial carries a human-readable reason.
type Decision struct {
	Allow  bool
	Reason string
}

var allowed = Decision{Allow: true}

// Authorize evaluates the guard rules in priority order. actorIsAdmin must
// be the actor's current persisted role fetched at decision time, never a
// session-cached flag; subjectID is the owner or subject of the resource
// for self-or-admin operations.
func Authorize(access Access, authenticated bool, actorID, subjectID string, actorIsAdmin bool) Decision {
	switch access {
	case AccessPublic:
		return allowed
	case AccessSelfOrAdmin:
		if !authenticated {
			return Decision{Reason: "authentication required"}
		}
		if actorID == subjectID || actorIsAdmin {
			return allowed
		}
		return Decision{Reason: "not the owner"}
	case AccessAdminOnly:
		if !authenticated {
			return Decision{Reason: "authentication required"}
		}
		if actorIsAdmin {
			return allowed
		}
		return Decision{Reason: "administrator role required"}
	default:
		if authenticated {
			return allowed
		}
		return Decision{Reason: "authentication required"}
	}
}
