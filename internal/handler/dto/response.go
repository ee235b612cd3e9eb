package dto

// Response is the JSON envelope every API endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope. A nil data is omitted.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps an error message in a failed envelope.
func Fail(message string) Response {
	return Response{Success: false, Error: message}
}

// CreatedTask is the payload returned by POST /api/tasks.
type CreatedTask struct {
	ID string `json:"id"`
}

// UploadedFile is the payload returned by POST /api/upload.
type UploadedFile struct {
	Filename string `json:"filename"`
}
