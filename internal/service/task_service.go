package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/taskflow/internal/cache"
	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/metrics"
)

// Cache keys and lifetimes.
const (
	AllTasksKey        = "tasks:all"
	userStatsKeyPrefix = "user:stats:"

	AllTasksTTL  = 300 * time.Second
	UserStatsTTL = 120 * time.Second
)

// UserStatsKey returns the cache key holding stats for userID.
func UserStatsKey(userID string) string {
	return userStatsKeyPrefix + userID
}

// Source reports where a read was served from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
	// SourceDegraded means the store failed and an empty/default value
	// was returned instead of an error.
	SourceDegraded Source = "degraded"
)

// CreateTaskParams holds the input for CreateTask. Empty Priority and
// AssignedTo take the domain defaults.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  string
}

// TaskService mediates task reads and writes through the cache.
//
// Reads are read-through: a hit returns the cached JSON, a miss loads from
// the store and fills the cache with a fixed TTL. Writes go to the store
// first and then delete the affected cache entries before returning. Cache
// failures are logged and never reach the caller.
//
// User stats are not invalidated by task writes and may lag by up to
// UserStatsTTL.
type TaskService struct {
	store   TaskStore
	cache   cache.Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithMetrics records read sources and store failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TaskService) { s.metrics = m }
}

// WithClock replaces the time source for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore, c cache.Cache, opts ...Option) *TaskService {
	s := &TaskService{
		store: store,
		cache: c,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTasks returns all tasks, newest first. A store failure yields an
// empty list with SourceDegraded rather than an error.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, Source) {
	var tasks []domain.Task
	if s.readCache(ctx, AllTasksKey, &tasks) {
		s.metrics.Read("list_tasks", string(SourceCache))
		return tasks, SourceCache
	}

	tasks, err := s.store.FindAll(ctx)
	if err != nil {
		slog.Error("failed to list tasks from store, returning empty list", "error", err)
		s.metrics.StoreError("find_all")
		s.metrics.Read("list_tasks", string(SourceDegraded))
		return []domain.Task{}, SourceDegraded
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	s.writeCache(ctx, AllTasksKey, tasks, AllTasksTTL)
	s.metrics.Read("list_tasks", string(SourceStore))
	return tasks, SourceStore
}

// CreateTask validates and inserts a pending task, then invalidates the
// task list. It returns the new task's identifier.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (string, error) {
	if err := validateCreate(params); err != nil {
		return "", err
	}

	if params.Priority == "" {
		params.Priority = domain.DefaultPriority
	}
	if params.AssignedTo == "" {
		params.AssignedTo = domain.DefaultAssignee
	}

	now := s.now()
	task := &domain.Task{
		Title:       params.Title,
		Description: params.Description,
		Status:      domain.TaskStatusPending,
		Priority:    params.Priority,
		AssignedTo:  params.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.store.Insert(ctx, task)
	if err != nil {
		s.metrics.StoreError("insert")
		return "", fmt.Errorf("insert task: %w: %w", domain.ErrStore, err)
	}

	s.invalidate(ctx, AllTasksKey)

	slog.Info("task created", "task_id", id, "assigned_to", task.AssignedTo)
	return id, nil
}

// UpdateTaskStatus sets a task's status. It returns false with a nil
// error when no task has the given id. The task list is invalidated
// whatever the outcome.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (bool, error) {
	if err := validateStatus(status); err != nil {
		return false, err
	}

	defer s.invalidate(ctx, AllTasksKey)

	updated, err := s.store.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		s.metrics.StoreError("update_status")
		return false, fmt.Errorf("update status of task %s: %w: %w", id, domain.ErrStore, err)
	}

	if updated {
		slog.Info("task status updated", "task_id", id, "status", status)
	}
	return updated, nil
}

// DeleteTask removes a task. It returns false with a nil error when no
// task has the given id. The task list is invalidated whatever the outcome.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	defer s.invalidate(ctx, AllTasksKey)

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		s.metrics.StoreError("delete")
		return false, fmt.Errorf("delete task %s: %w: %w", id, domain.ErrStore, err)
	}

	if deleted {
		slog.Info("task deleted", "task_id", id)
	}
	return deleted, nil
}

// GetUserStats returns per-status counts for tasks assigned to userID.
// A store failure yields zero counts with SourceDegraded.
func (s *TaskService) GetUserStats(ctx context.Context, userID string) (domain.UserStats, Source) {
	key := UserStatsKey(userID)

	var stats domain.UserStats
	if s.readCache(ctx, key, &stats) {
		s.metrics.Read("user_stats", string(SourceCache))
		return stats, SourceCache
	}

	stats, err := s.countUserTasks(ctx, userID)
	if err != nil {
		slog.Error("failed to count user tasks, returning zero stats", "user_id", userID, "error", err)
		s.metrics.StoreError("count")
		s.metrics.Read("user_stats", string(SourceDegraded))
		return domain.UserStats{}, SourceDegraded
	}

	s.writeCache(ctx, key, stats, UserStatsTTL)
	s.metrics.Read("user_stats", string(SourceStore))
	return stats, SourceStore
}

func (s *TaskService) countUserTasks(ctx context.Context, userID string) (domain.UserStats, error) {
	var stats domain.UserStats

	counts := []struct {
		status *domain.TaskStatus
		dst    *int64
	}{
		{nil, &stats.Total},
		{statusPtr(domain.TaskStatusPending), &stats.Pending},
		{statusPtr(domain.TaskStatusInProgress), &stats.InProgress},
		{statusPtr(domain.TaskStatusCompleted), &stats.Completed},
	}

	for _, c := range counts {
		n, err := s.store.Count(ctx, domain.TaskFilter{AssignedTo: userID, Status: c.status})
		if err != nil {
			return domain.UserStats{}, fmt.Errorf("count tasks: %w", err)
		}
		*c.dst = n
	}

	return stats, nil
}

func statusPtr(s domain.TaskStatus) *domain.TaskStatus {
	return &s
}

// readCache decodes the value under key into dst. Errors and undecodable
// payloads count as misses.
func (s *TaskService) readCache(ctx context.Context, key string, dst any) bool {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache get failed, falling back to store", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (s *TaskService) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

func (s *TaskService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("cache invalidation failed, entry stays until TTL expiry", "key", key, "error", err)
	}
}
