package services

import (
	"context"
	"sort"
	"time"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/core/authz"
	"campus-clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Person / role fakes
// ============================================================

type fakePersonRepo struct {
	people map[uint]*models.Person
	nextID uint
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{people: make(map[uint]*models.Person), nextID: 1}
}

func (r *fakePersonRepo) Create(ctx context.Context, person *models.Person) error {
	person.ID = r.nextID
	r.nextID++
	r.people[person.ID] = person
	return nil
}

func (r *fakePersonRepo) FindByID(ctx context.Context, id uint) (*models.Person, error) {
	person, ok := r.people[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return person, nil
}

func (r *fakePersonRepo) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	for _, person := range r.people {
		if person.Email == email {
			return person, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePersonRepo) List(ctx context.Context, offset, limit int) ([]models.Person, int64, error) {
	out := make([]models.Person, 0, len(r.people))
	for _, person := range r.people {
		out = append(out, *person)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakePersonRepo) Update(ctx context.Context, person *models.Person) error {
	if _, ok := r.people[person.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.people[person.ID] = person
	return nil
}

func (r *fakePersonRepo) Delete(ctx context.Context, id uint) error {
	delete(r.people, id)
	return nil
}

type fakeRoleRepo struct {
	roles map[uint]*models.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[uint]*models.Role{
		1: {ID: 1, Name: "Admin"},
		2: {ID: 2, Name: "Faculty"},
		3: {ID: 3, Name: "Student"},
	}}
}

func (r *fakeRoleRepo) FindByName(ctx context.Context, name string) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	for _, token := range r.tokens {
		if token.TokenHash == hash {
			return token, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, id uint) error {
	token, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForPerson(ctx context.Context, personID uint) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.PersonID == personID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	for id, token := range r.tokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
		}
	}
	return nil
}

// ============================================================
// Club fake
// ============================================================

type fakeClubRepo struct {
	clubs       map[uint]*models.Club
	memberships *fakeMembershipRepo
	nextID      uint
}

func newFakeClubRepo(memberships *fakeMembershipRepo) *fakeClubRepo {
	return &fakeClubRepo{
		clubs:       make(map[uint]*models.Club),
		memberships: memberships,
		nextID:      1,
	}
}

func (r *fakeClubRepo) Create(ctx context.Context, club *models.Club) error {
	club.ID = r.nextID
	r.nextID++
	r.clubs[club.ID] = club
	return nil
}

func (r *fakeClubRepo) FindByID(ctx context.Context, id uint) (*models.Club, error) {
	club, ok := r.clubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return club, nil
}

func (r *fakeClubRepo) FindByName(ctx context.Context, name string) (*models.Club, error) {
	for _, club := range r.clubs {
		if club.Name == name {
			return club, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClubRepo) List(ctx context.Context, status string, offset, limit int) ([]models.Club, int64, error) {
	out := make([]models.Club, 0)
	for _, club := range r.clubs {
		if status != "" && club.Status != status {
			continue
		}
		out = append(out, *club)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeClubRepo) ListPending(ctx context.Context) ([]models.Club, error) {
	out := make([]models.Club, 0)
	for _, club := range r.clubs {
		if club.Status == domain.StatusPending {
			out = append(out, *club)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeClubRepo) Update(ctx context.Context, club *models.Club) error {
	if _, ok := r.clubs[club.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.clubs[club.ID] = club
	return nil
}

func (r *fakeClubRepo) Delete(ctx context.Context, id uint) error {
	delete(r.clubs, id)
	return nil
}

func (r *fakeClubRepo) Activate(ctx context.Context, clubID, creatorID uint, joined time.Time) error {
	club, ok := r.clubs[clubID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if club.Status != domain.StatusPending {
		return domain.ErrInvalidState
	}
	club.Status = domain.StatusActive

	if m, err := r.memberships.FindByPersonAndClub(ctx, creatorID, clubID); err == nil {
		m.Role = string(domain.ClubRoleLeader)
		m.Status = domain.StatusActive
		return nil
	}
	return r.memberships.Create(ctx, &models.ClubMembership{
		PersonID:   creatorID,
		ClubID:     clubID,
		Role:       string(domain.ClubRoleLeader),
		Status:     domain.StatusActive,
		DateJoined: joined,
	})
}

func (r *fakeClubRepo) Reject(ctx context.Context, clubID uint) error {
	club, ok := r.clubs[clubID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if club.Status != domain.StatusPending {
		return domain.ErrInvalidState
	}
	club.Status = domain.StatusInactive
	return nil
}

func (r *fakeClubRepo) MemberCount(ctx context.Context, clubID uint) (int64, error) {
	var count int64
	for _, m := range r.memberships.items {
		if m.ClubID == clubID && m.Status == domain.StatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeClubRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	for _, club := range r.clubs {
		if club.Status == status {
			count++
		}
	}
	return count, nil
}

// ============================================================
// Membership fake
// ============================================================

type fakeMembershipRepo struct {
	items  map[uint]*models.ClubMembership
	nextID uint
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{items: make(map[uint]*models.ClubMembership), nextID: 1}
}

func (r *fakeMembershipRepo) Create(ctx context.Context, m *models.ClubMembership) error {
	m.ID = r.nextID
	r.nextID++
	r.items[m.ID] = m
	return nil
}

func (r *fakeMembershipRepo) FindByID(ctx context.Context, id uint) (*models.ClubMembership, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMembershipRepo) FindByPersonAndClub(ctx context.Context, personID, clubID uint) (*models.ClubMembership, error) {
	for _, m := range r.items {
		if m.PersonID == personID && m.ClubID == clubID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMembershipRepo) ListByClub(ctx context.Context, clubID uint, status string) ([]models.ClubMembership, error) {
	out := make([]models.ClubMembership, 0)
	for _, m := range r.items {
		if m.ClubID != clubID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembershipRepo) ListByPerson(ctx context.Context, personID uint) ([]models.ClubMembership, error) {
	out := make([]models.ClubMembership, 0)
	for _, m := range r.items {
		if m.PersonID == personID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembershipRepo) ListPendingByClubs(ctx context.Context, clubIDs []uint) ([]models.ClubMembership, error) {
	out := make([]models.ClubMembership, 0)
	for _, m := range r.items {
		if m.Status != domain.StatusPending {
			continue
		}
		for _, id := range clubIDs {
			if m.ClubID == id {
				out = append(out, *m)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembershipRepo) ListPendingAll(ctx context.Context) ([]models.ClubMembership, error) {
	out := make([]models.ClubMembership, 0)
	for _, m := range r.items {
		if m.Status == domain.StatusPending {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembershipRepo) Update(ctx context.Context, m *models.ClubMembership) error {
	if _, ok := r.items[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[m.ID] = m
	return nil
}

func (r *fakeMembershipRepo) Settle(ctx context.Context, membershipID uint, status string, joined time.Time) error {
	m, ok := r.items[membershipID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.Status != domain.StatusPending {
		return domain.ErrInvalidState
	}
	m.Status = status
	if status == domain.StatusActive {
		m.DateJoined = joined
	}
	return nil
}

func (r *fakeMembershipRepo) Delete(ctx context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *fakeMembershipRepo) IsClubLeader(ctx context.Context, clubID, personID uint) (bool, error) {
	for _, m := range r.items {
		if m.ClubID == clubID && m.PersonID == personID &&
			m.Role == string(domain.ClubRoleLeader) && m.Status == domain.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembershipRepo) LedClubIDs(ctx context.Context, personID uint) ([]uint, error) {
	out := make([]uint, 0)
	for _, m := range r.items {
		if m.PersonID == personID && m.Role == string(domain.ClubRoleLeader) && m.Status == domain.StatusActive {
			out = append(out, m.ClubID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *fakeMembershipRepo) ClubRolesForPerson(ctx context.Context, personID uint) ([]domain.ClubRole, error) {
	seen := make(map[domain.ClubRole]struct{})
	out := make([]domain.ClubRole, 0)
	for _, m := range r.items {
		if m.PersonID != personID || m.Status != domain.StatusActive {
			continue
		}
		role := domain.ClubRole(m.Role)
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out, nil
}

// ============================================================
// Event fake
// ============================================================

type fakeEventRepo struct {
	events     map[uint]*models.Event
	attendance []*models.EventAttendance
	nextID     uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uint]*models.Event), nextID: 1}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = r.nextID
	r.nextID++
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) List(ctx context.Context, offset, limit int) ([]models.Event, int64, error) {
	out := make([]models.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ListByClub(ctx context.Context, clubID uint) ([]models.Event, error) {
	out := make([]models.Event, 0)
	for _, event := range r.events {
		if event.ClubID == clubID {
			out = append(out, *event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) RecordAttendance(ctx context.Context, att *models.EventAttendance) error {
	att.ID = uint(len(r.attendance) + 1)
	r.attendance = append(r.attendance, att)
	return nil
}

func (r *fakeEventRepo) ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendance, error) {
	out := make([]models.EventAttendance, 0)
	for _, att := range r.attendance {
		if att.EventID == eventID {
			out = append(out, *att)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	for _, event := range r.events {
		if !event.EventDate.Before(from) {
			count++
		}
	}
	return count, nil
}

// ============================================================
// Budget fake
// ============================================================

type fakeBudgetRepo struct {
	budgets      map[uint]*models.Budget
	expenditures map[uint]*models.Expenditure
	clubs        *fakeClubRepo
	nextBudget   uint
	nextExp      uint
}

func newFakeBudgetRepo(clubs *fakeClubRepo) *fakeBudgetRepo {
	return &fakeBudgetRepo{
		budgets:      make(map[uint]*models.Budget),
		expenditures: make(map[uint]*models.Expenditure),
		clubs:        clubs,
		nextBudget:   1,
		nextExp:      1,
	}
}

func (r *fakeBudgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	budget.ID = r.nextBudget
	r.nextBudget++
	r.budgets[budget.ID] = budget
	return nil
}

func (r *fakeBudgetRepo) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	budget, ok := r.budgets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return budget, nil
}

func (r *fakeBudgetRepo) FindByClubAndYear(ctx context.Context, clubID uint, year string) (*models.Budget, error) {
	for _, budget := range r.budgets {
		if budget.ClubID == clubID && budget.AcademicYear == year {
			return budget, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBudgetRepo) ListByClub(ctx context.Context, clubID uint) ([]models.Budget, error) {
	out := make([]models.Budget, 0)
	for _, budget := range r.budgets {
		if budget.ClubID == clubID {
			out = append(out, *budget)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBudgetRepo) Update(ctx context.Context, budget *models.Budget) error {
	if _, ok := r.budgets[budget.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.budgets[budget.ID] = budget
	return nil
}

func (r *fakeBudgetRepo) CreateExpenditure(ctx context.Context, exp *models.Expenditure) error {
	exp.ID = r.nextExp
	r.nextExp++
	r.expenditures[exp.ID] = exp
	return nil
}

func (r *fakeBudgetRepo) FindExpenditureByID(ctx context.Context, id uint) (*models.Expenditure, error) {
	exp, ok := r.expenditures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if budget, ok := r.budgets[exp.BudgetID]; ok {
		exp.Budget = budget
	}
	return exp, nil
}

func (r *fakeBudgetRepo) ListExpendituresByBudget(ctx context.Context, budgetID uint) ([]models.Expenditure, error) {
	out := make([]models.Expenditure, 0)
	for _, exp := range r.expenditures {
		if exp.BudgetID == budgetID {
			out = append(out, *exp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBudgetRepo) ListPendingExpendituresAll(ctx context.Context) ([]models.Expenditure, error) {
	out := make([]models.Expenditure, 0)
	for _, exp := range r.expenditures {
		if exp.Status == domain.ExpenditurePending {
			out = append(out, *exp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBudgetRepo) ListExpendituresByClubs(ctx context.Context, clubIDs []uint) ([]models.Expenditure, error) {
	out := make([]models.Expenditure, 0)
	for _, exp := range r.expenditures {
		budget, ok := r.budgets[exp.BudgetID]
		if !ok {
			continue
		}
		for _, id := range clubIDs {
			if budget.ClubID == id {
				out = append(out, *exp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBudgetRepo) SettleExpenditure(ctx context.Context, expID uint, status string) error {
	exp, ok := r.expenditures[expID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if exp.Status != domain.ExpenditurePending {
		return domain.ErrInvalidState
	}
	exp.Status = status
	if status == domain.ExpenditureApproved {
		budget, ok := r.budgets[exp.BudgetID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		budget.TotalSpent += exp.Amount
	}
	return nil
}

func (r *fakeBudgetRepo) RecomputeSpent(ctx context.Context, budgetID uint) (float64, error) {
	budget, ok := r.budgets[budgetID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	var total float64
	for _, exp := range r.expenditures {
		if exp.BudgetID == budgetID && exp.Status == domain.ExpenditureApproved {
			total += exp.Amount
		}
	}
	budget.TotalSpent = total
	return total, nil
}

func (r *fakeBudgetRepo) AllBudgetIDs(ctx context.Context) ([]uint, error) {
	out := make([]uint, 0, len(r.budgets))
	for id := range r.budgets {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ============================================================
// Shared test environment
// ============================================================

// testEnv wires every fake repository behind a real guard so service tests
// exercise the same authorization path production does.
type testEnv struct {
	people      *fakePersonRepo
	clubs       *fakeClubRepo
	memberships *fakeMembershipRepo
	events      *fakeEventRepo
	budgets     *fakeBudgetRepo
	guard       *authz.Guard
}

func newTestEnv() *testEnv {
	memberships := newFakeMembershipRepo()
	clubs := newFakeClubRepo(memberships)
	return &testEnv{
		people:      newFakePersonRepo(),
		clubs:       clubs,
		memberships: memberships,
		events:      newFakeEventRepo(),
		budgets:     newFakeBudgetRepo(clubs),
		guard:       authz.NewGuard(memberships),
	}
}

// addClub seeds a club directly in the store.
func (e *testEnv) addClub(name, status string, createdBy uint) *models.Club {
	club := &models.Club{
		Name:            name,
		DateEstablished: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedBy:       createdBy,
		Status:          status,
	}
	_ = e.clubs.Create(context.Background(), club)
	return club
}

// addMembership seeds a membership row directly in the store.
func (e *testEnv) addMembership(personID, clubID uint, role, status string) *models.ClubMembership {
	m := &models.ClubMembership{
		PersonID:   personID,
		ClubID:     clubID,
		Role:       role,
		Status:     status,
		DateJoined: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	_ = e.memberships.Create(context.Background(), m)
	return m
}

// addBudget seeds a budget directly in the store.
func (e *testEnv) addBudget(clubID uint, year string, allocated float64) *models.Budget {
	budget := &models.Budget{
		ClubID:         clubID,
		AcademicYear:   year,
		TotalAllocated: allocated,
	}
	_ = e.budgets.Create(context.Background(), budget)
	return budget
}

// addExpenditure seeds an expenditure directly in the store.
func (e *testEnv) addExpenditure(budgetID uint, amount float64, status string) *models.Expenditure {
	exp := &models.Expenditure{
		BudgetID:    budgetID,
		Description: "supplies",
		Amount:      amount,
		RequestDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      status,
	}
	_ = e.budgets.CreateExpenditure(context.Background(), exp)
	return exp
}

var (
	adminActor   = domain.Actor{PersonID: 1, Email: "admin@campus.edu", SystemRole: domain.RoleAdmin}
	leaderActor  = domain.Actor{PersonID: 2, Email: "leader@campus.edu", SystemRole: domain.RoleStudent}
	studentActor = domain.Actor{PersonID: 3, Email: "student@campus.edu", SystemRole: domain.RoleStudent}
	anonActor    = domain.Actor{}
)
