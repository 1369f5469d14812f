package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregates
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// People
	TotalPeople   int64 `json:"total_people"`
	TotalStudents int64 `json:"total_students"`
	TotalFaculty  int64 `json:"total_faculty"`

	// Clubs
	TotalClubs    int64 `json:"total_clubs"`
	ActiveClubs   int64 `json:"active_clubs"`
	PendingClubs  int64 `json:"pending_clubs"`
	InactiveClubs int64 `json:"inactive_clubs"`

	// Review queues
	PendingMemberships  int64 `json:"pending_memberships"`
	PendingExpenditures int64 `json:"pending_expenditures"`

	// Events
	UpcomingEvents int64 `json:"upcoming_events"`

	// Money
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`

	// Recent Activity
	RecentExpenditures []ExpenditureSummary `json:"recent_expenditures"`
	BusiestClubs       []ClubActivity       `json:"busiest_clubs"`
}

// ExpenditureSummary represents expenditure summary
type ExpenditureSummary struct {
	ID          uint      `json:"id"`
	ClubName    string    `json:"club_name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RequestDate time.Time `json:"request_date"`
}

// ClubActivity represents per-club activity counts
type ClubActivity struct {
	ClubID      uint   `json:"club_id"`
	ClubName    string `json:"club_name"`
	MemberCount int64  `json:"member_count"`
	EventCount  int64  `json:"event_count"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// People counts by role
	s.db.WithContext(ctx).Table("people").Where("deleted_at IS NULL").Count(&data.TotalPeople)
	s.db.WithContext(ctx).Table("people").
		Joins("JOIN roles ON roles.id = people.role_id").
		Where("roles.name = ? AND people.deleted_at IS NULL", "Student").
		Count(&data.TotalStudents)
	s.db.WithContext(ctx).Table("people").
		Joins("JOIN roles ON roles.id = people.role_id").
		Where("roles.name = ? AND people.deleted_at IS NULL", "Faculty").
		Count(&data.TotalFaculty)

	// Club counts by status
	s.db.WithContext(ctx).Table("clubs").Where("deleted_at IS NULL").Count(&data.TotalClubs)
	s.db.WithContext(ctx).Table("clubs").Where("status = ? AND deleted_at IS NULL", "Active").Count(&data.ActiveClubs)
	s.db.WithContext(ctx).Table("clubs").Where("status = ? AND deleted_at IS NULL", "Pending").Count(&data.PendingClubs)
	s.db.WithContext(ctx).Table("clubs").Where("status = ? AND deleted_at IS NULL", "Inactive").Count(&data.InactiveClubs)

	// Review queue depths
	s.db.WithContext(ctx).Table("club_memberships").Where("status = ?", "Pending").Count(&data.PendingMemberships)
	s.db.WithContext(ctx).Table("expenditures").Where("status = ?", "Pending").Count(&data.PendingExpenditures)

	// Upcoming events
	s.db.WithContext(ctx).Table("events").
		Where("event_date >= ? AND deleted_at IS NULL", time.Now()).
		Count(&data.UpcomingEvents)

	// Money totals
	s.db.WithContext(ctx).Table("budgets").
		Select("COALESCE(SUM(total_allocated), 0)").Scan(&data.TotalAllocated)
	s.db.WithContext(ctx).Table("budgets").
		Select("COALESCE(SUM(total_spent), 0)").Scan(&data.TotalSpent)

	// Recent expenditures
	s.db.WithContext(ctx).Table("expenditures").
		Select("expenditures.id, clubs.name as club_name, expenditures.description, expenditures.amount, expenditures.status, expenditures.request_date").
		Joins("JOIN budgets ON budgets.id = expenditures.budget_id").
		Joins("JOIN clubs ON clubs.id = budgets.club_id").
		Order("expenditures.request_date DESC").
		Limit(10).
		Scan(&data.RecentExpenditures)

	// Busiest clubs by active member count
	s.db.WithContext(ctx).Table("clubs").
		Select(`clubs.id as club_id, clubs.name as club_name,
			(SELECT COUNT(*) FROM club_memberships m WHERE m.club_id = clubs.id AND m.status = 'Active') as member_count,
			(SELECT COUNT(*) FROM events e WHERE e.club_id = clubs.id AND e.deleted_at IS NULL) as event_count`).
		Where("clubs.status = ? AND clubs.deleted_at IS NULL", "Active").
		Order("member_count DESC").
		Limit(5).
		Scan(&data.BusiestClubs)

	return data, nil
}

// LeaderDashboardData represents a club leader's dashboard data
type LeaderDashboardData struct {
	LedClubs            int64                `json:"led_clubs"`
	PendingJoinRequests int64                `json:"pending_join_requests"`
	UpcomingEvents      int64                `json:"upcoming_events"`
	RecentExpenditures  []ExpenditureSummary `json:"recent_expenditures"`
}

// GetLeaderDashboard returns dashboard data scoped to the clubs a person leads
func (s *DashboardService) GetLeaderDashboard(ctx context.Context, personID uint) (*LeaderDashboardData, error) {
	data := &LeaderDashboardData{}

	var clubIDs []uint
	s.db.WithContext(ctx).Table("club_memberships").
		Where("person_id = ? AND role = ? AND status = ?", personID, "Club Leader", "Active").
		Pluck("club_id", &clubIDs)

	data.LedClubs = int64(len(clubIDs))
	if len(clubIDs) == 0 {
		data.RecentExpenditures = []ExpenditureSummary{}
		return data, nil
	}

	s.db.WithContext(ctx).Table("club_memberships").
		Where("club_id IN ? AND status = ?", clubIDs, "Pending").
		Count(&data.PendingJoinRequests)

	s.db.WithContext(ctx).Table("events").
		Where("club_id IN ? AND event_date >= ? AND deleted_at IS NULL", clubIDs, time.Now()).
		Count(&data.UpcomingEvents)

	s.db.WithContext(ctx).Table("expenditures").
		Select("expenditures.id, clubs.name as club_name, expenditures.description, expenditures.amount, expenditures.status, expenditures.request_date").
		Joins("JOIN budgets ON budgets.id = expenditures.budget_id").
		Joins("JOIN clubs ON clubs.id = budgets.club_id").
		Where("budgets.club_id IN ?", clubIDs).
		Order("expenditures.request_date DESC").
		Limit(10).
		Scan(&data.RecentExpenditures)

	return data, nil
}
