package domain

import (
	"strings"
	"time"
)

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus normalizes a raw status value into the closed enum.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case TaskStatusPending:
		return TaskStatusPending, true
	case TaskStatusAssigned:
		return TaskStatusAssigned, true
	case TaskStatusInProgress:
		return TaskStatusInProgress, true
	case TaskStatusCompleted:
		return TaskStatusCompleted, true
	default:
		return "", false
	}
}

// TaskRoleType classifies a task as a customer service request or a staff
// work item. Assignment reclassifies a task as staff for the rest of its
// life.
type TaskRoleType string

const (
	TaskRoleStaff    TaskRoleType = "staff"
	TaskRoleCustomer TaskRoleType = "customer"
)

// ParseTaskRoleType normalizes a raw roleType value.
func ParseTaskRoleType(raw string) (TaskRoleType, bool) {
	switch TaskRoleType(strings.ToLower(strings.TrimSpace(raw))) {
	case TaskRoleStaff:
		return TaskRoleStaff, true
	case TaskRoleCustomer:
		return TaskRoleCustomer, true
	default:
		return "", false
	}
}

// Task is the aggregate for customer requests and staff jobs.
type Task struct {
	ID           string
	CustomerID   string
	CustomerName string
	Title        string
	Description  string
	DueDate      time.Time
	Status       TaskStatus
	RoleType     TaskRoleType
	CreatedBy    string
	AssignedTo   *string
	AssignedName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether the actor owns the task for mutation purposes: a
// customer owns tasks they filed, a staff member owns tasks assigned to
// them. Elevated roles never rely on ownership.
func (t *Task) OwnedBy(role Role, actorID string) bool {
	switch role {
	case RoleCustomer:
		return t.CustomerID == actorID
	case RoleStaff:
		return t.AssignedTo != nil && *t.AssignedTo == actorID
	default:
		return false
	}
}

// StatusChangeAllowed is the transition rule for direct status writes:
// elevated actors may set any valid status (including regressions, which
// are not otherwise prevented); customers and staff may only complete
// tasks they own. Assignment is governed separately and always overwrites.
func StatusChangeAllowed(role Role, owner bool, target TaskStatus) bool {
	if role.Elevated() {
		return true
	}
	return owner && target == TaskStatusCompleted
}
