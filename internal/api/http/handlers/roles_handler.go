package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/service"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// RolesHandler exposes role management endpoints.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roleService}
}

// List handles GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, dto.NewRoleResponse(&roles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/roles/:code.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	role, err := h.roles.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// Create handles POST /api/roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code == "" || req.Name == "" {
		return apperrors.NewValidationError("code and name are required", nil)
	}

	role, err := h.roles.Create(c.UserContext(), req.Code, req.Name, req.Permissions)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// Update handles PATCH /api/roles/:code.
func (h *RolesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role, err := h.roles.Update(c.UserContext(), c.Params("code"), service.RoleUpdate{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// Delete handles DELETE /api/roles/:code.
func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	if err := h.roles.Delete(c.UserContext(), c.Params("code")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Activate handles POST /api/roles/:code/activate.
func (h *RolesHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate handles POST /api/roles/:code/deactivate.
func (h *RolesHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *RolesHandler) setActive(c *fiber.Ctx, active bool) error {
	role, err := h.roles.SetActive(c.UserContext(), actorID(c), c.Params("code"), active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}
