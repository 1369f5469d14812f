package domain

// Role represents a system-wide role
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleFaculty Role = "Faculty"
	RoleStudent Role = "Student"
)

// ClubRole represents a per-club role carried by a membership
type ClubRole string

const (
	ClubRoleLeader ClubRole = "Club Leader"
	ClubRoleMember ClubRole = "Club Member"
)

// Club and membership statuses
const (
	StatusPending  = "Pending"
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Expenditure statuses
const (
	ExpenditurePending  = "Pending"
	ExpenditureApproved = "Approved"
	ExpenditureRejected = "Rejected"
)

// Actor is the authenticated identity attached to a request.
// Built from verified token claims; never persisted.
type Actor struct {
	PersonID   uint
	Email      string
	SystemRole Role
}

// Authenticated reports whether the actor carries a real identity.
func (a Actor) Authenticated() bool {
	return a.PersonID != 0
}

// IsAdmin reports whether the actor holds the Admin system role.
func (a Actor) IsAdmin() bool {
	return a.SystemRole == RoleAdmin
}
