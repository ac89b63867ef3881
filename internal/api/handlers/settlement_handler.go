package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/reelpay/internal/service"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
)

type SettlementHandler struct {
	s service.EarningsService
}

func NewSettlementHandler(service service.EarningsService) *SettlementHandler {
	return &SettlementHandler{s: service}
}

func (h *SettlementHandler) Settle(c *fiber.Ctx) error {
	var req transfer.SettlementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, errutil.Validation("invalid request body"))
		}
	}

	summary, err := h.s.Settle(c.UserContext(), req.CampaignIDs)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
