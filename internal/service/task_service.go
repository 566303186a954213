package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/factory-ops/internal/directory"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/events"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// TaskService owns the task lifecycle: creation, assignment, status
// transitions, deletion and listing. Route middleware gates roles at the
// transport edge; the checks here are authoritative and hold even if a
// route is miswired.
//
// Task mutations are read-modify-write without a surrounding transaction.
// Concurrent writers against the same task race at the store with
// last-write-wins; per-entity conflicts are rare and accepted.
type TaskService struct {
	tasks      repository.TaskRepository
	directory  directory.Directory
	dispatcher events.Dispatcher
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	Directory  directory.Directory
	Dispatcher events.Dispatcher
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	CustomerID  string
	Title       string
	Description string
	DueDate     time.Time
	RoleType    domain.TaskRoleType
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a task. A customer always files against themselves: any
// customer_id in the payload is ignored for customer actors. Elevated
// actors must name the customer explicitly. Staff may not create tasks.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, input TaskCreateInput) (*domain.Task, error) {
	if actor.Role == domain.RoleStaff {
		return nil, apperrors.NewForbidden("permission denied")
	}

	customerID := strings.TrimSpace(input.CustomerID)
	if actor.Role == domain.RoleCustomer {
		customerID = actor.ID
	}

	title := strings.TrimSpace(input.Title)
	if customerID == "" || title == "" || input.DueDate.IsZero() {
		return nil, apperrors.NewValidationError("customer_id, title and due_date are required", nil)
	}

	profile, err := s.directory.Lookup(ctx, customerID)
	if err != nil {
		return nil, err
	}

	roleType := input.RoleType
	if roleType == "" {
		if actor.Role == domain.RoleCustomer {
			roleType = domain.TaskRoleCustomer
		} else {
			roleType = domain.TaskRoleStaff
		}
	}

	task := &domain.Task{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		CustomerName: profile.Name,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		DueDate:      input.DueDate,
		Status:       domain.TaskStatusPending,
		RoleType:     roleType,
		CreatedBy:    actor.ID,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventTaskCreated,
		TaskID: task.ID,
		Actor:  events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TaskCreatedPayload{
			CustomerID: task.CustomerID,
			RoleType:   task.RoleType,
			Title:      task.Title,
			DueDate:    task.DueDate,
		},
	})
	return task, nil
}

// Assign hands a task to a staff member. Assignment always overwrites:
// it reclassifies the task as a staff job and resets status to assigned
// regardless of the current state, so a completed task can be reassigned
// (effectively reopened).
func (s *TaskService) Assign(ctx context.Context, actor domain.Actor, taskID, staffID, staffName string) (*domain.Task, error) {
	if !actor.Role.Elevated() {
		return nil, apperrors.NewForbidden("permission denied")
	}
	staffID = strings.TrimSpace(staffID)
	staffName = strings.TrimSpace(staffName)
	if staffID == "" || staffName == "" {
		return nil, apperrors.NewValidationError("staff_id and staff_name are required", nil)
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.AssignedTo = &staffID
	task.AssignedName = &staffName
	task.RoleType = domain.TaskRoleStaff
	task.Status = domain.TaskStatusAssigned

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventTaskAssigned,
		TaskID: task.ID,
		Actor:  events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TaskAssignedPayload{
			AssignedTo:   staffID,
			AssignedName: staffName,
		},
	})
	return task, nil
}

// UpdateStatus writes a new status. Elevated actors may set any valid
// value, including regressions. Customers and staff may only complete
// tasks they own (the filing customer, or the assigned staff member).
func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Actor, taskID string, target domain.TaskStatus) (*domain.Task, error) {
	status, ok := domain.ParseTaskStatus(string(target))
	if !ok {
		return nil, apperrors.NewValidationError("invalid status value", map[string]any{"status": string(target)})
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	owner := task.OwnedBy(actor.Role, actor.ID)
	if !domain.StatusChangeAllowed(actor.Role, owner, status) {
		return nil, apperrors.NewForbidden("permission denied")
	}

	old := task.Status
	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventTaskStatusChanged,
		TaskID: task.ID,
		Actor:  events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TaskStatusChangedPayload{
			OldStatus: old,
			NewStatus: status,
		},
	})
	return task, nil
}

// Delete removes a task permanently. Elevated only; no archival.
func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, taskID string) error {
	if !actor.Role.Elevated() {
		return apperrors.NewForbidden("permission denied")
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTaskDeleted,
		TaskID:  task.ID,
		Actor:   events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TaskDeletedPayload{CustomerID: task.CustomerID},
	})
	return nil
}

// ListAll returns every task, newest first. Elevated only.
func (s *TaskService) ListAll(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Task, error) {
	if !actor.Role.Elevated() {
		return nil, apperrors.NewForbidden("permission denied")
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// ListMine returns the actor's own view: requests they filed for
// customers, jobs assigned to them for staff. A staff member with nothing
// assigned gets an empty list, not an error.
func (s *TaskService) ListMine(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Task, error) {
	filter := repository.TaskFilter{Limit: limit, Offset: offset}
	switch actor.Role {
	case domain.RoleCustomer:
		roleType := domain.TaskRoleCustomer
		filter.CustomerID = &actor.ID
		filter.RoleType = &roleType
	case domain.RoleStaff:
		roleType := domain.TaskRoleStaff
		filter.AssignedTo = &actor.ID
		filter.RoleType = &roleType
	default:
		return nil, apperrors.NewForbidden("permission denied")
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

func (s *TaskService) getTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
