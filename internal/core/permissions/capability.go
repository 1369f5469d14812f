// Package permissions maps role names to capability sets and computes the
// aggregate capability set an actor holds across their system role and club
// roles. Lookups are pure; an unknown role name yields the empty set rather
// than an error, so a stale or legacy role string is powerless but harmless.
package permissions

import (
	"context"
	"sort"

	"campus-clubhub/internal/core/domain"
)

// Capability is an atomic named permission token.
type Capability string

const (
	// Club capabilities
	CreateClub  Capability = "CREATE_CLUB"
	ViewClub    Capability = "VIEW_CLUB"
	UpdateClub  Capability = "UPDATE_CLUB"
	DeleteClub  Capability = "DELETE_CLUB"
	ApproveClub Capability = "APPROVE_CLUB"

	// Member capabilities
	ManageMembers    Capability = "MANAGE_MEMBERS"
	ViewMembers      Capability = "VIEW_MEMBERS"
	AddMember        Capability = "ADD_MEMBER"
	RemoveMember     Capability = "REMOVE_MEMBER"
	UpdateMemberRole Capability = "UPDATE_MEMBER_ROLE"

	// Event capabilities
	CreateEvent      Capability = "CREATE_EVENT"
	ViewEvent        Capability = "VIEW_EVENT"
	UpdateEvent      Capability = "UPDATE_EVENT"
	DeleteEvent      Capability = "DELETE_EVENT"
	ManageAttendance Capability = "MANAGE_ATTENDANCE"

	// Budget capabilities
	ViewBudget         Capability = "VIEW_BUDGET"
	ManageBudget       Capability = "MANAGE_BUDGET"
	ApproveBudget      Capability = "APPROVE_BUDGET"
	CreateExpenditure  Capability = "CREATE_EXPENDITURE"
	ApproveExpenditure Capability = "APPROVE_EXPENDITURE"

	// User capabilities
	ViewUsers   Capability = "VIEW_USERS"
	ManageUsers Capability = "MANAGE_USERS"
	AssignRoles Capability = "ASSIGN_ROLES"

	// System capabilities
	ViewDashboard Capability = "VIEW_DASHBOARD"
	ManageSystem  Capability = "MANAGE_SYSTEM"
)

// Set is a capability set.
type Set map[Capability]struct{}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities in sorted order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) union(other Set) {
	for c := range other {
		s[c] = struct{}{}
	}
}

func newSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// rolePermissions is the fixed role-to-capability table, keyed by role name
// so both system roles and club roles resolve through the same lookup.
var rolePermissions = map[string]Set{
	string(domain.RoleAdmin): newSet(
		CreateClub, ViewClub, UpdateClub, DeleteClub, ApproveClub,
		ManageMembers, ViewMembers, AddMember, RemoveMember, UpdateMemberRole,
		CreateEvent, ViewEvent, UpdateEvent, DeleteEvent, ManageAttendance,
		ViewBudget, ManageBudget, ApproveBudget, CreateExpenditure, ApproveExpenditure,
		ViewUsers, ManageUsers, AssignRoles,
		ViewDashboard, ManageSystem,
	),
	string(domain.RoleFaculty): newSet(
		ViewClub, ApproveClub,
		ViewMembers, ManageMembers,
		ViewEvent,
		ViewBudget, ApproveBudget, ApproveExpenditure,
		ViewUsers, ViewDashboard,
	),
	string(domain.RoleStudent): newSet(
		ViewClub, CreateClub,
		ViewMembers,
		ViewEvent, CreateEvent,
		ViewBudget, CreateExpenditure,
	),
	string(domain.ClubRoleLeader): newSet(
		ViewClub, UpdateClub,
		ViewMembers, ManageMembers, AddMember, RemoveMember,
		CreateEvent, ViewEvent, UpdateEvent, DeleteEvent, ManageAttendance,
		ViewBudget, CreateExpenditure,
	),
	string(domain.ClubRoleMember): newSet(
		ViewClub, ViewMembers, ViewEvent, ViewBudget,
	),
}

// ForRole returns the capability set granted to a role name. Unknown role
// names return the empty set.
func ForRole(role string) Set {
	out := make(Set)
	if caps, ok := rolePermissions[role]; ok {
		out.union(caps)
	}
	return out
}

// ClubRoleReader supplies the club roles an actor holds through Active
// memberships. Satisfied by the membership repository.
type ClubRoleReader interface {
	ClubRolesForPerson(ctx context.Context, personID uint) ([]domain.ClubRole, error)
}

// Aggregate returns the union of the actor's system-role capabilities and
// the capabilities of every club role held via an Active membership.
func Aggregate(ctx context.Context, actor domain.Actor, reader ClubRoleReader) (Set, error) {
	out := ForRole(string(actor.SystemRole))

	roles, err := reader.ClubRolesForPerson(ctx, actor.PersonID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		out.union(ForRole(string(role)))
	}
	return out, nil
}

// Has reports whether the actor's aggregate capability set contains c.
func Has(ctx context.Context, actor domain.Actor, reader ClubRoleReader, c Capability) (bool, error) {
	caps, err := Aggregate(ctx, actor, reader)
	if err != nil {
		return false, err
	}
	return caps.Has(c), nil
}
