package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/factory-ops/internal/api/dto"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/service"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// SalariesHandler exposes salary records. Routes are elevated-only.
type SalariesHandler struct {
	service *service.SalaryService
}

// NewSalariesHandler constructs handler.
func NewSalariesHandler(salaryService *service.SalaryService) *SalariesHandler {
	return &SalariesHandler{service: salaryService}
}

// Create POST /salaries.
func (h *SalariesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSalaryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	effectiveFrom, ok := parseDate(req.EffectiveFrom)
	if !ok {
		return apperrors.NewValidationError("invalid effective_from", map[string]any{"effective_from": req.EffectiveFrom})
	}
	salary, err := h.service.Create(c.Context(), service.SalaryInput{
		EmployeeID:    req.EmployeeID,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		EffectiveFrom: effectiveFrom,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": salaryResponse(salary)})
}

// List GET /salaries (optionally ?employee_id=).
func (h *SalariesHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	salaries, err := h.service.List(c.Context(), c.Query("employee_id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.SalaryResponse, 0, len(salaries))
	for i := range salaries {
		items = append(items, salaryResponse(&salaries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /salaries/:id.
func (h *SalariesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSalaryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.SalaryInput{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	}
	if req.EffectiveFrom != "" {
		effectiveFrom, ok := parseDate(req.EffectiveFrom)
		if !ok {
			return apperrors.NewValidationError("invalid effective_from", map[string]any{"effective_from": req.EffectiveFrom})
		}
		input.EffectiveFrom = effectiveFrom
	}
	salary, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": salaryResponse(salary)})
}

func salaryResponse(salary *domain.Salary) dto.SalaryResponse {
	return dto.SalaryResponse{
		ID:            salary.ID,
		EmployeeID:    salary.EmployeeID,
		AmountCents:   salary.AmountCents,
		Currency:      salary.Currency,
		EffectiveFrom: salary.EffectiveFrom,
		CreatedAt:     salary.CreatedAt,
		UpdatedAt:     salary.UpdatedAt,
	}
}
