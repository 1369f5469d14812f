// Package authz holds the single request-time authorization guard. Every
// club-scoped rule that the handlers used to re-derive inline lives here,
// parameterized by (actor, action, club id).
package authz

import (
	"context"
	"fmt"

	"campus-clubhub/internal/core/domain"
)

// Reason categorizes a denial.
type Reason string

const (
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotClubLeader    Reason = "not_club_leader"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err converts a denial into the matching domain error kind. Allowed
// decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotAuthenticated:
		return domain.ErrUnauthorized
	case ReasonNotClubLeader:
		return fmt.Errorf("not a leader of this club: %w", domain.ErrForbidden)
	default:
		return fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// LeadershipReader answers club-leadership questions from the membership
// store. Leadership requires an Active membership with the Club Leader role
// on the exact club in question.
type LeadershipReader interface {
	IsClubLeader(ctx context.Context, clubID, personID uint) (bool, error)
	LedClubIDs(ctx context.Context, personID uint) ([]uint, error)
}

// Guard evaluates resource-scoped authorization decisions.
type Guard struct {
	memberships LeadershipReader
}

// NewGuard creates a guard backed by the given membership reader.
func NewGuard(memberships LeadershipReader) *Guard {
	return &Guard{memberships: memberships}
}

// leaderOrAdmin implements the shared club-scoped write rule: Admin always,
// otherwise an Active Club Leader membership on this exact club. Leadership
// of a different club never qualifies.
func (g *Guard) leaderOrAdmin(ctx context.Context, actor domain.Actor, clubID uint) (Decision, error) {
	if !actor.Authenticated() {
		return deny(ReasonNotAuthenticated), nil
	}
	if actor.IsAdmin() {
		return allow(), nil
	}
	leader, err := g.memberships.IsClubLeader(ctx, clubID, actor.PersonID)
	if err != nil {
		return Decision{}, err
	}
	if !leader {
		return deny(ReasonNotClubLeader), nil
	}
	return allow(), nil
}

// CanManageClub gates club updates, member add/remove, event creation and
// attendance management for the given club.
func (g *Guard) CanManageClub(ctx context.Context, actor domain.Actor, clubID uint) (Decision, error) {
	return g.leaderOrAdmin(ctx, actor, clubID)
}

// CanCreateExpenditure gates expenditure creation against the budget's club.
// The forced-Pending default for non-Admin creators is applied by the budget
// service in the same operation; this decision only answers who may create.
func (g *Guard) CanCreateExpenditure(ctx context.Context, actor domain.Actor, clubID uint) (Decision, error) {
	return g.leaderOrAdmin(ctx, actor, clubID)
}

// CanReviewMembership gates membership approval and rejection: Admin, or an
// Active leader of the membership's club.
func (g *Guard) CanReviewMembership(ctx context.Context, actor domain.Actor, clubID uint) (Decision, error) {
	return g.leaderOrAdmin(ctx, actor, clubID)
}

// CanReviewExpenditure gates expenditure approval and rejection. Admin only,
// with no club-leader exception.
func (g *Guard) CanReviewExpenditure(actor domain.Actor) Decision {
	return g.adminOnly(actor)
}

// CanReviewClub gates club approval and rejection. Admin only.
func (g *Guard) CanReviewClub(actor domain.Actor) Decision {
	return g.adminOnly(actor)
}

// CanAssignClubRole gates promoting and demoting members between the leader
// and member roles. Admin only; leaders cannot mint other leaders.
func (g *Guard) CanAssignClubRole(actor domain.Actor) Decision {
	return g.adminOnly(actor)
}

func (g *Guard) adminOnly(actor domain.Actor) Decision {
	if !actor.Authenticated() {
		return deny(ReasonNotAuthenticated)
	}
	if !actor.IsAdmin() {
		return deny(ReasonInsufficientRole)
	}
	return allow()
}

// Scope describes which clubs' items an actor may see in request listings.
// Admin sees everything; anyone else sees only the clubs they actively lead.
type Scope struct {
	All     bool
	ClubIDs []uint
}

// ListingScope computes the visibility scope for pending-request listings.
func (g *Guard) ListingScope(ctx context.Context, actor domain.Actor) (Scope, error) {
	if !actor.Authenticated() {
		return Scope{}, domain.ErrUnauthorized
	}
	if actor.IsAdmin() {
		return Scope{All: true}, nil
	}
	ids, err := g.memberships.LedClubIDs(ctx, actor.PersonID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{ClubIDs: ids}, nil
}
