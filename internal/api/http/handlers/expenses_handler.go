package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/factory-ops/internal/api/dto"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/service"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// ExpensesHandler exposes expense CRUD. Routes are elevated-only.
type ExpensesHandler struct {
	service *service.ExpenseService
}

// NewExpensesHandler constructs handler.
func NewExpensesHandler(expenseService *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{service: expenseService}
}

// Create POST /expenses.
func (h *ExpensesHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	incurredOn, ok := parseDate(req.IncurredOn)
	if !ok {
		return apperrors.NewValidationError("invalid incurred_on", map[string]any{"incurred_on": req.IncurredOn})
	}
	expense, err := h.service.Create(c.Context(), actor, service.ExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		AmountCents: req.AmountCents,
		IncurredOn:  incurredOn,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": expenseResponse(expense)})
}

// List GET /expenses.
func (h *ExpensesHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	expenses, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, expenseResponse(&expenses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /expenses/:id.
func (h *ExpensesHandler) Get(c *fiber.Ctx) error {
	expense, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenseResponse(expense)})
}

// Update PATCH /expenses/:id.
func (h *ExpensesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.ExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		AmountCents: req.AmountCents,
	}
	if req.IncurredOn != "" {
		incurredOn, ok := parseDate(req.IncurredOn)
		if !ok {
			return apperrors.NewValidationError("invalid incurred_on", map[string]any{"incurred_on": req.IncurredOn})
		}
		input.IncurredOn = incurredOn
	}
	expense, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenseResponse(expense)})
}

// Delete DELETE /expenses/:id. Soft delete; the record is retained.
func (h *ExpensesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

func expenseResponse(expense *domain.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          expense.ID,
		Category:    expense.Category,
		Description: expense.Description,
		AmountCents: expense.AmountCents,
		IncurredOn:  expense.IncurredOn,
		CreatedBy:   expense.CreatedBy,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}
