package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Roles  *handlers.RolesHandler
	Gates  *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Protected routes compose the
// authentication gate with a per-route permission gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Gates.Authenticate, cfg.Auth.Me)

	users := app.Group("/api/users", cfg.Gates.Authenticate)
	users.Get("/me", cfg.Gates.RequirePermission(domain.PermUserReadSelf), cfg.Users.GetSelf)
	users.Put("/me/avatar", cfg.Gates.RequirePermission(domain.PermUserUpdateSelf), cfg.Users.UpdateAvatar)
	users.Get("/", cfg.Gates.RequirePermission(domain.PermUserRead), cfg.Users.List)
	users.Post("/", cfg.Gates.RequirePermission(domain.PermUserCreate), cfg.Users.Create)
	users.Get("/:id", cfg.Gates.RequirePermission(domain.PermUserRead), cfg.Users.Get)
	users.Patch("/:id", cfg.Gates.RequirePermission(domain.PermUserUpdate), cfg.Users.Update)
	users.Delete("/:id", cfg.Gates.RequirePermission(domain.PermUserDelete), cfg.Users.Delete)
	users.Put("/:id/roles", cfg.Gates.RequirePermission(domain.PermUserAssignRole), cfg.Users.AssignRoles)

	roles := app.Group("/api/roles", cfg.Gates.Authenticate)
	roles.Get("/", cfg.Gates.RequirePermission(domain.PermRoleRead), cfg.Roles.List)
	roles.Post("/", cfg.Gates.RequirePermission(domain.PermRoleCreate), cfg.Roles.Create)
	roles.Get("/:code", cfg.Gates.RequirePermission(domain.PermRoleRead), cfg.Roles.Get)
	roles.Patch("/:code", cfg.Gates.RequirePermission(domain.PermRoleUpdate), cfg.Roles.Update)
	roles.Delete("/:code", cfg.Gates.RequirePermission(domain.PermRoleDelete), cfg.Roles.Delete)
	roles.Post("/:code/activate", cfg.Gates.RequirePermission(domain.PermRoleUpdate), cfg.Roles.Activate)
	roles.Post("/:code/deactivate", cfg.Gates.RequirePermission(domain.PermRoleUpdate), cfg.Roles.Deactivate)
}
