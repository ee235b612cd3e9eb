// Package servicetest provides in-memory store fakes for tests of the
// service and handler layers.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

// ErrUnavailable is returned by a Store switched to failing mode.
var ErrUnavailable = errors.New("store unavailable")

// Store is an in-memory TaskStore and ActivityStore that counts calls.
type Store struct {
	mu       sync.Mutex
	tasks    map[string]domain.Task
	activity []domain.ActivityLog
	nextID   int
	failing  bool
	calls    map[string]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]domain.Task),
		calls: make(map[string]int),
	}
}

// SetFailing makes every subsequent call fail with ErrUnavailable.
func (s *Store) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// Calls returns how many times operation was invoked.
func (s *Store) Calls(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[operation]
}

// TotalCalls returns the number of calls across all operations.
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Activity returns a copy of the stored activity entries.
func (s *Store) Activity() []domain.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ActivityLog(nil), s.activity...)
}

func (s *Store) begin(operation string) error {
	s.calls[operation]++
	if s.failing {
		return ErrUnavailable
	}
	return nil
}

func (s *Store) Insert(_ context.Context, task *domain.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("insert"); err != nil {
		return "", err
	}

	s.nextID++
	id := "task-" + strconv.Itoa(s.nextID)
	stored := *task
	stored.ID = id
	s.tasks[id] = stored
	return id, nil
}

func (s *Store) FindAll(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("find_all"); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *Store) UpdateStatus(_ context.Context, id string, status domain.TaskStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("update_status"); err != nil {
		return false, err
	}

	t, ok := s.tasks[id]
	if !ok {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = at
	s.tasks[id] = t
	return true, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("delete"); err != nil {
		return false, err
	}

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *Store) Count(_ context.Context, filter domain.TaskFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("count"); err != nil {
		return 0, err
	}

	var n int64
	for _, t := range s.tasks {
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		n++
	}
	return n, nil
}

// Ping reports ErrUnavailable in failing mode. It is not counted.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return ErrUnavailable
	}
	return nil
}

// ActivityStore adapts Store to service.ActivityStore; Insert on Store
// itself belongs to the task collection.
type ActivityStore struct {
	*Store
}

// Activities returns the activity view of s.
func (s *Store) Activities() ActivityStore {
	return ActivityStore{Store: s}
}

func (a ActivityStore) Insert(_ context.Context, entry *domain.ActivityLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.begin("insert_activity"); err != nil {
		return err
	}
	a.activity = append(a.activity, *entry)
	return nil
}

// Clock is a manually advanced time source. Each call to Now moves it
// forward by one second so creation order is strictly increasing.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a Clock at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current time and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}
