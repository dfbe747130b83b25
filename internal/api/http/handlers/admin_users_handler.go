package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-service/internal/api/dto"
	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/repository"
	"github.com/spec-kit/admin-service/internal/service"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// AdminUsersHandler exposes user management for admins.
type AdminUsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(authService *service.AuthService, userService *service.UserService) *AdminUsersHandler {
	return &AdminUsersHandler{auth: authService, users: userService}
}

// List handles GET /admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	opts := repository.ListOptions{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return apperrors.NewValidationError("limit and offset must not be negative", nil)
	}

	users, err := h.users.List(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Get handles GET /admin/users/:identifier.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	identifier, err := identifierParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), identifier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Create handles POST /admin/users. Any role may be assigned.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.FromValidation(err)
	}

	principal, err := h.auth.Register(c.UserContext(), req.Identifier, req.Secret, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": principal})
}

// SetStatus handles PATCH /admin/users/:identifier/status.
func (h *AdminUsersHandler) SetStatus(c *fiber.Ctx) error {
	identifier, err := identifierParam(c)
	if err != nil {
		return err
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.FromValidation(err)
	}

	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.ErrMissingCredentials
	}
	user, err := h.users.SetActive(c.UserContext(), actor, identifier, *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /admin/users/:identifier.
func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	identifier, err := identifierParam(c)
	if err != nil {
		return err
	}
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.ErrMissingCredentials
	}
	if err := h.users.Delete(c.UserContext(), actor, identifier); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// identifierParam returns the percent-decoded :identifier route segment.
func identifierParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("identifier")
	identifier, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid identifier encoding", map[string]any{"identifier": raw})
	}
	if identifier == "" {
		return "", apperrors.NewValidationError("identifier required", nil)
	}
	return identifier, nil
}
