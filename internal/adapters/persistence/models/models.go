package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity tables
// ============================================================

// Role represents the roles master table (seeded at startup)
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:30;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

func (Role) TableName() string {
	return "roles"
}

// Person represents the people table
type Person struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FirstName  string         `gorm:"size:50;not null" json:"first_name"`
	LastName   string         `gorm:"size:50;not null" json:"last_name"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone      string         `gorm:"size:20" json:"phone"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	Department string         `gorm:"size:100" json:"department"`
	Year       *int           `json:"year"`
	RoleID     uint           `gorm:"not null;index" json:"role_id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (Person) TableName() string {
	return "people"
}

// PersonResponse DTO
type PersonResponse struct {
	ID         uint      `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Department string    `json:"department,omitempty"`
	Year       *int      `json:"year,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Person) ToResponse() *PersonResponse {
	resp := &PersonResponse{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Department: p.Department,
		Year:       p.Year,
		CreatedAt:  p.CreatedAt,
	}
	if p.Role != nil {
		resp.Role = p.Role.Name
	}
	return resp
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PersonID  uint       `gorm:"index;not null" json:"person_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Club tables
// ============================================================

// Club represents the clubs table
type Club struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	DateEstablished time.Time      `gorm:"type:date;not null" json:"date_established"`
	CreatedBy       uint           `gorm:"not null" json:"created_by"`
	Status          string         `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Creator *Person `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Club) TableName() string {
	return "clubs"
}

// ClubResponse DTO
type ClubResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DateEstablished time.Time `json:"date_established"`
	CreatedBy       uint      `json:"created_by"`
	CreatorName     string    `json:"creator_name,omitempty"`
	Status          string    `json:"status"`
	MemberCount     int64     `json:"member_count"`
}

func (c *Club) ToResponse(memberCount int64) *ClubResponse {
	resp := &ClubResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		DateEstablished: c.DateEstablished,
		CreatedBy:       c.CreatedBy,
		Status:          c.Status,
		MemberCount:     memberCount,
	}
	if c.Creator != nil {
		resp.CreatorName = c.Creator.FirstName + " " + c.Creator.LastName
	}
	return resp
}

// ClubMembership represents the club_memberships table.
// One row per (person, club) pair, enforced by the composite unique index.
type ClubMembership struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PersonID   uint      `gorm:"not null;uniqueIndex:idx_person_club" json:"person_id"`
	ClubID     uint      `gorm:"not null;uniqueIndex:idx_person_club;index" json:"club_id"`
	Role       string    `gorm:"size:20;not null;default:'Club Member'" json:"role"`
	Status     string    `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	DateJoined time.Time `gorm:"type:date;not null" json:"date_joined"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Person *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Club   *Club   `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}

func (ClubMembership) TableName() string {
	return "club_memberships"
}

// MembershipResponse DTO
type MembershipResponse struct {
	ID         uint      `json:"id"`
	PersonID   uint      `json:"person_id"`
	PersonName string    `json:"person_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	ClubID     uint      `json:"club_id"`
	ClubName   string    `json:"club_name,omitempty"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	DateJoined time.Time `json:"date_joined"`
}

func (m *ClubMembership) ToResponse() *MembershipResponse {
	resp := &MembershipResponse{
		ID:         m.ID,
		PersonID:   m.PersonID,
		ClubID:     m.ClubID,
		Role:       m.Role,
		Status:     m.Status,
		DateJoined: m.DateJoined,
	}
	if m.Person != nil {
		resp.PersonName = m.Person.FirstName + " " + m.Person.LastName
		resp.Email = m.Person.Email
	}
	if m.Club != nil {
		resp.ClubName = m.Club.Name
	}
	return resp
}

// ============================================================
// Event tables
// ============================================================

// Event represents the events table
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ClubID      uint           `gorm:"not null;index" json:"club_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	EventDate   time.Time      `gorm:"type:date;not null;index" json:"event_date"`
	Venue       string         `gorm:"size:200" json:"venue"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Club *Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// EventResponse DTO
type EventResponse struct {
	ID          uint      `json:"id"`
	ClubID      uint      `json:"club_id"`
	ClubName    string    `json:"club_name,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Venue       string    `json:"venue"`
}

func (e *Event) ToResponse() *EventResponse {
	resp := &EventResponse{
		ID:          e.ID,
		ClubID:      e.ClubID,
		Name:        e.Name,
		Description: e.Description,
		EventDate:   e.EventDate,
		Venue:       e.Venue,
	}
	if e.Club != nil {
		resp.ClubName = e.Club.Name
	}
	return resp
}

// EventAttendance represents the event_attendances table
type EventAttendance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    uint      `gorm:"not null;uniqueIndex:idx_event_person" json:"event_id"`
	PersonID   uint      `gorm:"not null;uniqueIndex:idx_event_person" json:"person_id"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recorded_at"`

	Event  *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Person *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}

func (EventAttendance) TableName() string {
	return "event_attendances"
}

// ============================================================
// Budget tables
// ============================================================

// Budget represents the budgets table. TotalSpent is a derived cache of the
// sum of Approved expenditure amounts; Remaining is always computed, never
// stored. One budget per (club, academic year).
type Budget struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ClubID         uint      `gorm:"not null;uniqueIndex:idx_club_year" json:"club_id"`
	AcademicYear   string    `gorm:"size:9;not null;uniqueIndex:idx_club_year" json:"academic_year"`
	TotalAllocated float64   `gorm:"type:decimal(12,2);not null" json:"total_allocated"`
	TotalSpent     float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total_spent"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Club *Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}

func (Budget) TableName() string {
	return "budgets"
}

// BudgetResponse DTO
type BudgetResponse struct {
	ID             uint    `json:"id"`
	ClubID         uint    `json:"club_id"`
	ClubName       string  `json:"club_name,omitempty"`
	AcademicYear   string  `json:"academic_year"`
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`
	Remaining      float64 `json:"remaining"`
}

func (b *Budget) ToResponse() *BudgetResponse {
	resp := &BudgetResponse{
		ID:             b.ID,
		ClubID:         b.ClubID,
		AcademicYear:   b.AcademicYear,
		TotalAllocated: b.TotalAllocated,
		TotalSpent:     b.TotalSpent,
		Remaining:      b.TotalAllocated - b.TotalSpent,
	}
	if b.Club != nil {
		resp.ClubName = b.Club.Name
	}
	return resp
}

// Expenditure represents the expenditures table
type Expenditure struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BudgetID    uint      `gorm:"not null;index" json:"budget_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	RequestDate time.Time `gorm:"type:date;not null" json:"request_date"`
	Status      string    `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Budget *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

func (Expenditure) TableName() string {
	return "expenditures"
}

// ExpenditureResponse DTO
type ExpenditureResponse struct {
	ID           uint      `json:"id"`
	BudgetID     uint      `json:"budget_id"`
	ClubID       uint      `json:"club_id,omitempty"`
	ClubName     string    `json:"club_name,omitempty"`
	AcademicYear string    `json:"academic_year,omitempty"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	RequestDate  time.Time `json:"request_date"`
	Status       string    `json:"status"`
}

func (e *Expenditure) ToResponse() *ExpenditureResponse {
	resp := &ExpenditureResponse{
		ID:          e.ID,
		BudgetID:    e.BudgetID,
		Description: e.Description,
		Amount:      e.Amount,
		RequestDate: e.RequestDate,
		Status:      e.Status,
	}
	if e.Budget != nil {
		resp.ClubID = e.Budget.ClubID
		resp.AcademicYear = e.Budget.AcademicYear
		if e.Budget.Club != nil {
			resp.ClubName = e.Budget.Club.Name
		}
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&Person{},
		&RefreshToken{},
		&Club{},
		&ClubMembership{},
		&Event{},
		&EventAttendance{},
		&Budget{},
		&Expenditure{},
	)
}
