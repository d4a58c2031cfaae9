package handlers

import (
	"errors"
	"strconv"
	"strings"

	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/pagination"
	"welin-backend/internal/pkg/password"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles admin user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents user creation request body
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
}

// UpdateUserRequest represents user update request body
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// Create handles user creation by an admin
// @Summary Create user
// @Description Create a user or vendor account
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /admin/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Mobile == "" {
		return response.BadRequest(c, "Mobile is required")
	}
	if errs := password.ValidatePassword(req.Password); len(errs) > 0 {
		return response.ValidationFailed(c, errs)
	}

	input := &services.CreateUserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Mobile:   strings.TrimSpace(req.Mobile),
		Role:     req.Role,
	}

	user, err := h.userService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.BadRequest(c, "Email or mobile already registered")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", user)
}

// List handles paginated user listing
// @Summary List users
// @Description List user accounts (agents and admins excluded), paginated
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved", pagination.NewResponse(users, params, total))
}

// ListVendors handles vendor listing
// @Summary List vendors
// @Description List all vendor accounts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/vendors [get]
func (h *UserHandler) ListVendors(c *fiber.Ctx) error {
	vendors, err := h.userService.ListVendors(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list vendors")
	}
	return response.Success(c, "Vendors retrieved", vendors)
}

// Counts handles the dashboard counts endpoint
// @Summary Active counts
// @Description Count active users, vendors and members
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/counts [get]
func (h *UserHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.userService.GetCounts(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get counts")
	}
	return response.Success(c, "Counts retrieved", counts)
}

// Update handles user updates
// @Summary Update user
// @Description Update a user's allow-listed fields
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateUserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:   strings.TrimSpace(req.Mobile),
		Role:     req.Role,
		IsActive: req.IsActive,
	}

	user, err := h.userService.Update(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.BadRequest(c, "Email or mobile already registered")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user)
}

// SetActive handles account activation/deactivation
// @Summary Activate or deactivate account
// @Description Flip the active flag on a user account
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id}/active [patch]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update account status")
		}
	}

	return response.Success(c, "Account status updated", user)
}

// CheckMobile handles mobile number availability checks
// @Summary Check mobile
// @Description Check whether a mobile number is already registered
// @Tags Admin
// @Produce json
// @Param mobile query string true "Mobile number"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/check-mobile [get]
func (h *UserHandler) CheckMobile(c *fiber.Ctx) error {
	mobile := strings.TrimSpace(c.Query("mobile"))
	if mobile == "" {
		return response.BadRequest(c, "Mobile is required")
	}

	exists, err := h.userService.CheckMobile(c.Context(), mobile)
	if err != nil {
		return response.InternalServerError(c, "Failed to check mobile")
	}

	return response.Success(c, "Mobile checked", fiber.Map{"exists": exists})
}
