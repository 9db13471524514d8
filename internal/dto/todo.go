package dto

import "time"

type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateTodoRequest is a partial update: nil means "leave the field alone".
type UpdateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	// TimeRemainingSeconds counts down to ExpiresAt at the moment the
	// response was built.
	TimeRemainingSeconds int64 `json:"time_remaining_seconds"`
}

type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
	Count int            `json:"count"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// SnapshotResponse is the payload the websocket hub broadcasts to observers.
type SnapshotResponse struct {
	Todos ListTodosResponse `json:"todos"`
	Stats StatsResponse     `json:"stats"`
}
