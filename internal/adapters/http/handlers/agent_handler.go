package handlers

import (
	"errors"
	"strings"

	"welin-backend/internal/adapters/persistence/models"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AgentHandler handles vendor-scoped agent endpoints
type AgentHandler struct {
	userService *services.UserService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(userService *services.UserService) *AgentHandler {
	return &AgentHandler{userService: userService}
}

// CreateAgentRequest represents agent creation request body
type CreateAgentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
}

// Create handles agent creation by a vendor
// @Summary Create agent
// @Description Create an agent account under the calling vendor
// @Tags Agent
// @Accept json
// @Produce json
// @Param body body CreateAgentRequest true "Agent data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /agent [post]
func (h *AgentHandler) Create(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(*models.User)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateAgentRequest
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

	input := &services.CreateUserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Mobile:   strings.TrimSpace(req.Mobile),
	}

	agent, err := h.userService.CreateAgent(c.Context(), caller.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.BadRequest(c, "Email or mobile already registered")
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to create agent")
		}
	}

	return response.Created(c, "Agent created successfully", agent)
}

// List handles agent listing for the calling vendor
// @Summary List agents
// @Description List agents belonging to the calling vendor
// @Tags Agent
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /agent [get]
func (h *AgentHandler) List(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(*models.User)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	agents, err := h.userService.ListAgents(c.Context(), caller.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVendorNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to list agents")
		}
	}

	return response.Success(c, "Agents retrieved", agents)
}
