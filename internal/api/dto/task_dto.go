package dto

import (
	"time"

	"github.com/spec-kit/factory-ops/internal/domain"
)

// CreateTaskRequest payload. CustomerID is ignored for customer callers
// (they always file for themselves) and required for elevated callers,
// so the conditional check lives in the service, not a tag.
type CreateTaskRequest struct {
	CustomerID  string `json:"customer_id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"required"`
	RoleType    string `json:"role_type"`
}

// AssignTaskRequest payload.
type AssignTaskRequest struct {
	TaskID    string `json:"task_id" validate:"required"`
	StaffID   string `json:"staff_id" validate:"required"`
	StaffName string `json:"staff_name" validate:"required"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskResponse is the wire shape for a task.
type TaskResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      time.Time           `json:"due_date"`
	Status       domain.TaskStatus   `json:"status"`
	RoleType     domain.TaskRoleType `json:"role_type"`
	CreatedBy    string              `json:"created_by"`
	AssignedTo   *string             `json:"assigned_to"`
	AssignedName *string             `json:"assigned_name"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
