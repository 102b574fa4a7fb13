package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AaronAmha/HomeManagement/internal/api/dto"
	"github.com/AaronAmha/HomeManagement/internal/domain"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	"github.com/AaronAmha/HomeManagement/internal/service"
)

// TicketsHandler serves the read-only ops ticket endpoints.
type TicketsHandler struct {
	service *service.TicketQueryService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(queryService *service.TicketQueryService) *TicketsHandler {
	return &TicketsHandler{service: queryService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, msgs, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, msgs)})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		filter.TenantID = &tenantID
	}
	if landlordID := c.Query("landlord_id"); landlordID != "" {
		filter.LandlordID = &landlordID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if emergencyStr := c.Query("emergency"); emergencyStr != "" {
		if emergency, err := strconv.ParseBool(emergencyStr); err == nil {
			filter.Emergency = &emergency
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
