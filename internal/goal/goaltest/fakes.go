// Package goaltest provides in-memory fakes for the goal engine's
// collaborator interfaces, shared by tests across packages.
package goaltest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/goal"
	"github.com/wealthloop/goal-engine/internal/models"
	"github.com/wealthloop/goal-engine/internal/notify"
)

// Store is an in-memory goal.Store. It also implements
// gamification.StatsSource the same way the real repository does.
type Store struct {
	mu    sync.Mutex
	goals map[uuid.UUID]models.Goal

	// FindAllErr, when set, fails FindAllActive to simulate a job-level
	// store outage.
	FindAllErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{goals: make(map[uuid.UUID]models.Goal)}
}

// Add seeds a goal directly, bypassing validation.
func (s *Store) Add(g models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
}

// Get returns a stored goal by ID, or nil.
func (s *Store) Get(id uuid.UUID) *models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.goals[id]; ok {
		return &g
	}
	return nil
}

func (s *Store) Create(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) FindOne(_ context.Context, id, ownerID uuid.UUID) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, goal.ErrGoalNotFound
	}
	return &g, nil
}

func (s *Store) FindMany(_ context.Context, ownerID uuid.UUID, filter models.GoalFilter) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Goal
	for _, g := range s.goals {
		if g.OwnerID != ownerID {
			continue
		}
		if filter.Type != nil && g.Type != *filter.Type {
			continue
		}
		if filter.IsActive != nil && g.IsActive != *filter.IsActive {
			continue
		}
		if filter.CategoryID != nil && (g.CategoryID == nil || *g.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(g.Name), needle) &&
				!strings.Contains(strings.ToLower(g.Description), needle) {
				continue
			}
		}
		out = append(out, g)
	}
	sortGoals(out)
	return out, nil
}

func (s *Store) Update(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return goal.ErrGoalNotFound
	}
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return goal.ErrGoalNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) FindAllActive(_ context.Context) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindAllErr != nil {
		return nil, s.FindAllErr
	}
	var out []models.Goal
	for _, g := range s.goals {
		if g.IsActive {
			out = append(out, g)
		}
	}
	sortGoals(out)
	return out, nil
}

func (s *Store) FindActiveWithDeadlineBetween(_ context.Context, from, to time.Time) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for _, g := range s.goals {
		if g.IsActive && g.TargetDate != nil && !g.TargetDate.Before(from) && !g.TargetDate.After(to) {
			out = append(out, g)
		}
	}
	sortGoals(out)
	return out, nil
}

func (s *Store) FindActiveOverdue(_ context.Context, now time.Time) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for _, g := range s.goals {
		if g.IsActive && g.TargetDate != nil && g.TargetDate.Before(now) {
			out = append(out, g)
		}
	}
	sortGoals(out)
	return out, nil
}

// OwnerGoalStats mirrors the repository computation: completed means the
// current amount has reached the target.
func (s *Store) OwnerGoalStats(_ context.Context, ownerID uuid.UUID) (models.OwnerGoalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.OwnerGoalStats{TotalSaved: decimal.Zero}
	for _, g := range s.goals {
		if g.OwnerID != ownerID {
			continue
		}
		stats.GoalsCreated++
		if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			stats.GoalsCompleted++
		}
		if g.Type == models.GoalTypeSavings {
			stats.TotalSaved = stats.TotalSaved.Add(g.CurrentAmount)
		}
	}
	return stats, nil
}

func sortGoals(goals []models.Goal) {
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
}

// Aggregator is a scripted goal.AggregationSource. Set SumFn or
// InvestmentsFn for per-call behavior; otherwise the fixed fields are
// returned.
type Aggregator struct {
	mu sync.Mutex

	Sum         decimal.Decimal
	SumFn       func(ownerID uuid.UUID, filter models.TransactionFilter) (decimal.Decimal, error)
	Investments []models.Investment

	SumCalls []models.TransactionFilter
}

func (a *Aggregator) SumTransactions(_ context.Context, ownerID uuid.UUID, filter models.TransactionFilter) (decimal.Decimal, error) {
	a.mu.Lock()
	a.SumCalls = append(a.SumCalls, filter)
	a.mu.Unlock()

	if a.SumFn != nil {
		return a.SumFn(ownerID, filter)
	}
	return a.Sum, nil
}

func (a *Aggregator) ListInvestments(_ context.Context, _ uuid.UUID) ([]models.Investment, error) {
	return a.Investments, nil
}

// LastSumCall returns the most recent transaction filter, or nil.
func (a *Aggregator) LastSumCall() *models.TransactionFilter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.SumCalls) == 0 {
		return nil
	}
	f := a.SumCalls[len(a.SumCalls)-1]
	return &f
}

// Categories is a goal.CategoryResolver backed by a set of known IDs.
type Categories struct {
	Existing map[uuid.UUID]bool
}

func (c *Categories) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	return c.Existing[id], nil
}

// Recorder is a notify.Dispatcher that captures notifications.
type Recorder struct {
	mu            sync.Mutex
	Notifications []notify.Notification
}

func (r *Recorder) Dispatch(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
}

// Count returns how many notifications were dispatched.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Notifications)
}

// Titles returns dispatched notification titles in order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, 0, len(r.Notifications))
	for _, n := range r.Notifications {
		titles = append(titles, n.Title)
	}
	return titles
}

// ByTitle returns the notifications whose title contains the substring.
func (r *Recorder) ByTitle(substr string) []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Notification
	for _, n := range r.Notifications {
		if strings.Contains(n.Title, substr) {
			out = append(out, n)
		}
	}
	return out
}
