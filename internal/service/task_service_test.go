package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/factory-ops/internal/directory"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/events"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// mockTaskRepo is a map-backed TaskRepository. Like the real store it has
// no locking across read-modify-write: the last Update wins.
type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	seq   int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task.CreatedAt = time.Unix(int64(m.seq), 0)
	task.UpdatedAt = task.CreatedAt
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := task
	return &copied, nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Task
	for _, task := range m.tasks {
		if filter.CustomerID != nil && task.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.RoleType != nil && task.RoleType != *filter.RoleType {
			continue
		}
		result = append(result, task)
	}
	// newest first
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

type mockDirectory struct {
	profiles map[string]directory.Profile
}

func (m *mockDirectory) Lookup(_ context.Context, id string) (*directory.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
	}
	return &profile, nil
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	adminActor    = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	managerActor  = domain.Actor{ID: "mgr-1", Role: domain.RoleManager}
	staffActor    = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
	customerActor = domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}
)

func newTaskFixture() (*TaskService, *mockTaskRepo, *captureDispatcher) {
	repo := newMockTaskRepo()
	dispatcher := &captureDispatcher{}
	dir := &mockDirectory{profiles: map[string]directory.Profile{
		"cust-1": {ID: "cust-1", Name: "Priya Rao", Role: domain.RoleCustomer},
		"cust-2": {ID: "cust-2", Name: "Jon Wells", Role: domain.RoleCustomer},
	}}
	svc := NewTaskService(TaskDependencies{TaskRepo: repo, Directory: dir, Dispatcher: dispatcher})
	return svc, repo, dispatcher
}

func validInput() TaskCreateInput {
	return TaskCreateInput{Title: "Pickup", DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestCreateAsCustomerForcesOwnerID(t *testing.T) {
	svc, _, _ := newTaskFixture()

	input := validInput()
	input.CustomerID = "cust-2" // conflicting id in the payload is ignored

	task, err := svc.Create(context.Background(), customerActor, input)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", task.CustomerID)
	assert.Equal(t, "Priya Rao", task.CustomerName)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskRoleCustomer, task.RoleType)
	assert.Equal(t, "cust-1", task.CreatedBy)
	assert.Nil(t, task.AssignedTo)
}

func TestCreateAsManagerRequiresCustomerID(t *testing.T) {
	svc, _, _ := newTaskFixture()

	_, err := svc.Create(context.Background(), managerActor, validInput())
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	input := validInput()
	input.CustomerID = "cust-2"
	task, err := svc.Create(context.Background(), managerActor, input)
	require.NoError(t, err)
	assert.Equal(t, "cust-2", task.CustomerID)
	assert.Equal(t, domain.TaskRoleStaff, task.RoleType)
	assert.Equal(t, "mgr-1", task.CreatedBy)
}

func TestCreateRejectsStaff(t *testing.T) {
	svc, _, _ := newTaskFixture()

	input := validInput()
	input.CustomerID = "cust-1"
	_, err := svc.Create(context.Background(), staffActor, input)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTaskFixture()

	missingTitle := validInput()
	missingTitle.Title = "  "
	_, err := svc.Create(context.Background(), customerActor, missingTitle)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	missingDue := validInput()
	missingDue.DueDate = time.Time{}
	_, err = svc.Create(context.Background(), customerActor, missingDue)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc, _, _ := newTaskFixture()

	input := validInput()
	input.CustomerID = "ghost"
	_, err := svc.Create(context.Background(), adminActor, input)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateRoleTypeOverride(t *testing.T) {
	svc, _, _ := newTaskFixture()

	input := validInput()
	input.CustomerID = "cust-1"
	input.RoleType = domain.TaskRoleCustomer
	task, err := svc.Create(context.Background(), adminActor, input)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskRoleCustomer, task.RoleType)
}

func TestAssignOverwritesUnconditionally(t *testing.T) {
	svc, _, dispatcher := newTaskFixture()

	task, err := svc.Create(context.Background(), customerActor, validInput())
	require.NoError(t, err)

	// complete the task first, then reassign it
	_, err = svc.UpdateStatus(context.Background(), adminActor, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)

	assigned, err := svc.Assign(context.Background(), managerActor, task.ID, "staff-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, assigned.Status)
	assert.Equal(t, domain.TaskRoleStaff, assigned.RoleType)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "staff-1", *assigned.AssignedTo)
	require.NotNil(t, assigned.AssignedName)
	assert.Equal(t, "Alice", *assigned.AssignedName)

	assert.Contains(t, dispatcher.types(), events.EventTaskAssigned)
}

func TestAssignValidation(t *testing.T) {
	svc, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), customerActor, validInput())
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), adminActor, task.ID, "", "Alice")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Assign(context.Background(), adminActor, task.ID, "staff-1", " ")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Assign(context.Background(), adminActor, "missing", "staff-1", "Alice")
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Assign(context.Background(), staffActor, task.ID, "staff-1", "Alice")
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestUpdateStatusOwnerRules(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)
	_, err = svc.Assign(ctx, managerActor, task.ID, "staff-1", "Alice")
	require.NoError(t, err)

	// assigned staff may not pick an intermediate status
	_, err = svc.UpdateStatus(ctx, staffActor, task.ID, domain.TaskStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	// but completing is allowed
	updated, err := svc.UpdateStatus(ctx, staffActor, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

	// regression attempts from the owner stay forbidden
	_, err = svc.UpdateStatus(ctx, staffActor, task.ID, domain.TaskStatusPending)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	// a different staff member does not own the task
	other := domain.Actor{ID: "staff-2", Role: domain.RoleStaff}
	_, err = svc.UpdateStatus(ctx, other, task.ID, domain.TaskStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestUpdateStatusCustomerOwnership(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)

	stranger := domain.Actor{ID: "cust-2", Role: domain.RoleCustomer}
	for _, target := range []domain.TaskStatus{domain.TaskStatusCompleted, domain.TaskStatusPending} {
		_, err = svc.UpdateStatus(ctx, stranger, task.ID, target)
		require.Error(t, err, "target=%s", target)
		assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
	}

	updated, err := svc.UpdateStatus(ctx, customerActor, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
}

func TestUpdateStatusElevatedArbitrary(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)

	// "in progress" has no non-elevated producer; this is its only path
	updated, err := svc.UpdateStatus(ctx, adminActor, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	// regressions are permitted for elevated actors
	updated, err = svc.UpdateStatus(ctx, managerActor, task.ID, domain.TaskStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, updated.Status)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), customerActor, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), adminActor, task.ID, domain.TaskStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)

	require.Error(t, svc.Delete(ctx, staffActor, task.ID))
	require.Error(t, svc.Delete(ctx, customerActor, task.ID))

	require.NoError(t, svc.Delete(ctx, adminActor, task.ID))
	_, err = repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	err = svc.Delete(ctx, adminActor, task.ID)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestListMineFilters(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)
	_, err = svc.Assign(ctx, managerActor, second.ID, "staff-1", "Alice")
	require.NoError(t, err)

	// customer sees only their unassigned request; the assigned one was
	// reclassified as a staff job
	mine, err := svc.ListMine(ctx, customerActor, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	// staff sees the assigned job
	jobs, err := svc.ListMine(ctx, staffActor, 0, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, second.ID, jobs[0].ID)

	// staff with nothing assigned gets an empty list, not an error
	idle := domain.Actor{ID: "staff-9", Role: domain.RoleStaff}
	none, err := svc.ListMine(ctx, idle, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	// elevated callers use ListAll instead
	_, err = svc.ListMine(ctx, adminActor, 0, 0)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestListAllNewestFirst(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, managerActor, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	_, err = svc.ListAll(ctx, customerActor, 0, 0)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

// Concurrent mutations of one task are read-modify-write against the store
// with no conflict detection: whichever write lands last defines the final
// state. The ordering below pins that behavior.
func TestLastWriteWins(t *testing.T) {
	svc, repo, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, customerActor, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, adminActor, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	_, err = svc.Assign(ctx, managerActor, task.ID, "staff-1", "Alice")
	require.NoError(t, err)

	final, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, final.Status)

	// and in the opposite order the completion wins
	_, err = svc.UpdateStatus(ctx, adminActor, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	final, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, final.Status)
	assert.Equal(t, "staff-1", *final.AssignedTo)
}
