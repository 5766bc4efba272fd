package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/sla-service/internal/api/dto"
	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/repository"
	apperrors "github.com/helpdesk-kit/sla-service/pkg/util/errorutil"
)

// ClientsHandler manages client company endpoints.
type ClientsHandler struct {
	clients repository.ClientRepository
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients repository.ClientRepository) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// CreateClient POST /clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	plan := domain.Plan(strings.ToLower(strings.TrimSpace(req.Plan)))
	if plan == "" {
		plan = domain.PlanBasic
	}
	if !domain.ValidPlan(plan) {
		return apperrors.NewValidationError("unknown plan", map[string]any{"plan": req.Plan})
	}

	client := &domain.Client{
		Name:  strings.TrimSpace(req.Name),
		CNPJ:  strings.TrimSpace(req.CNPJ),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
		Notes: req.Notes,
		Plan:  plan,
	}
	if err := h.clients.Create(c.Context(), client); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// GetClient GET /clients/:id.
func (h *ClientsHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.clients.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("client", nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// ListClients GET /clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	clients, err := h.clients.List(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:    client.ID,
		Name:  client.Name,
		CNPJ:  client.CNPJ,
		Email: client.Email,
		Phone: client.Phone,
		Notes: client.Notes,
		Plan:  client.Plan,
	}
}
