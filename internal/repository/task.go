package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskflow/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "status", "priority", "assigned_to",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.AssignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}

// Insert creates a task and returns the generated id.
func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) (string, error) {
	query, args, err := psql.
		Insert("tasks").
		Columns("title", "description", "status", "priority", "assigned_to", "created_at", "updated_at").
		Values(task.Title, task.Description, task.Status, task.Priority, task.AssignedTo, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var id string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	return id, nil
}

// FindAll returns every task, newest first.
func (r *TaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	query, args, err := psql.
		Select(idAsText(taskColumns)...).
		From("tasks").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return tasks, nil
}

// UpdateStatus sets the status and updated_at of one task. A malformed or
// unknown id reports false.
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.TaskStatus,
	at time.Time,
) (bool, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	query, args, err := psql.
		Update("tasks").
		Set("status", status).
		Set("updated_at", at).
		Where(sq.Eq{"id": taskID.String()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update task status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete removes one task. A malformed or unknown id reports false.
func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID.String()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Count returns the number of tasks matching filter.
func (r *TaskRepository) Count(ctx context.Context, filter domain.TaskFilter) (int64, error) {
	qb := psql.Select("COUNT(*)").From("tasks")

	if filter.AssignedTo != "" {
		qb = qb.Where(sq.Eq{"assigned_to": filter.AssignedTo})
	}
	if filter.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filter.Status})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return count, nil
}

// idAsText casts the uuid id column to text so it scans into a string.
func idAsText(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if c == "id" {
			c = "id::text"
		}
		out[i] = c
	}
	return out
}
