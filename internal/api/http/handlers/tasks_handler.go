package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/factory-ops/internal/api/dto"
	"github.com/spec-kit/factory-ops/internal/auth"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/service"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// TasksHandler exposes the task lifecycle over HTTP.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// Create POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dueDate, ok := parseDate(req.DueDate)
	if !ok {
		return apperrors.NewValidationError("invalid due_date", map[string]any{"due_date": req.DueDate})
	}

	input := service.TaskCreateInput{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	}
	if req.RoleType != "" {
		roleType, ok := domain.ParseTaskRoleType(req.RoleType)
		if !ok {
			return apperrors.NewValidationError("invalid role_type", map[string]any{"role_type": req.RoleType})
		}
		input.RoleType = roleType
	}

	task, err := h.service.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// ListAll GET /tasks.
func (h *TasksHandler) ListAll(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	tasks, err := h.service.ListAll(c.Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// ListMine GET /tasks/my.
func (h *TasksHandler) ListMine(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	tasks, err := h.service.ListMine(c.Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// Assign POST /tasks/assign.
func (h *TasksHandler) Assign(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.Assign(c.Context(), actor, req.TaskID, req.StaffID, req.StaffName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateStatus PATCH /tasks/:id.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.UpdateStatus(c.Context(), actor, c.Params("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// Delete DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

func actorFromContext(c *fiber.Ctx) (domain.Actor, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return claims.Actor(), nil
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	page := c.QueryInt("page", 1)
	if page <= 0 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 50)
	if pageSize <= 0 {
		pageSize = 50
	}
	return pageSize, (page - 1) * pageSize
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:           task.ID,
		CustomerID:   task.CustomerID,
		CustomerName: task.CustomerName,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Status:       task.Status,
		RoleType:     task.RoleType,
		CreatedBy:    task.CreatedBy,
		AssignedTo:   task.AssignedTo,
		AssignedName: task.AssignedName,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func taskResponses(tasks []domain.Task) []dto.TaskResponse {
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return items
}
