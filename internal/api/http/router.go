package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/factory-ops/internal/api/http/handlers"
	"github.com/spec-kit/factory-ops/internal/auth"
	"github.com/spec-kit/factory-ops/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TasksHandler
	Employees      *handlers.EmployeesHandler
	Customers      *handlers.CustomersHandler
	Expenses       *handlers.ExpensesHandler
	Salaries       *handlers.SalariesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gates at the routing layer are
// the first line; services re-check the same rules.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	tasks := api.Group("/tasks")
	tasks.Post("", cfg.Tasks.Create)
	tasks.Get("", auth.RequireElevated(), cfg.Tasks.ListAll)
	tasks.Get("/my", auth.RequireRoles(domain.RoleCustomer, domain.RoleStaff), cfg.Tasks.ListMine)
	tasks.Post("/assign", auth.RequireElevated(), cfg.Tasks.Assign)
	tasks.Patch("/:id", cfg.Tasks.UpdateStatus)
	tasks.Delete("/:id", auth.RequireElevated(), cfg.Tasks.Delete)

	employees := api.Group("/employees", auth.RequireElevated())
	employees.Post("", cfg.Employees.Create)
	employees.Get("", cfg.Employees.List)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Patch("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	customers := api.Group("/customers", auth.RequireElevated())
	customers.Get("", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Patch("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)

	expenses := api.Group("/expenses", auth.RequireElevated())
	expenses.Post("", cfg.Expenses.Create)
	expenses.Get("", cfg.Expenses.List)
	expenses.Get("/:id", cfg.Expenses.Get)
	expenses.Patch("/:id", cfg.Expenses.Update)
	expenses.Delete("/:id", cfg.Expenses.Delete)

	salaries := api.Group("/salaries", auth.RequireElevated())
	salaries.Post("", cfg.Salaries.Create)
	salaries.Get("", cfg.Salaries.List)
	salaries.Patch("/:id", cfg.Salaries.Update)
}
