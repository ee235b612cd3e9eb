package domain

import "time"

// Action tags recorded in the activity log.
const (
	ActionCreateTask       = "create_task"
	ActionUpdateTaskStatus = "update_task_status"
	ActionDeleteTask       = "delete_task"
	ActionFileUpload       = "file_upload"
)

// ActivityLog is an append-only audit record of a user action.
type ActivityLog struct {
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}
