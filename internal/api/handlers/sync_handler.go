package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/reelpay/internal/service"
)

type SyncHandler struct {
	s service.SyncService
}

func NewSyncHandler(service service.SyncService) *SyncHandler {
	return &SyncHandler{s: service}
}

func (h *SyncHandler) ForceRefresh(c *fiber.Ctx) error {
	campaignID, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	acceptance, err := h.s.Trigger(c.UserContext(), campaignID, GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(acceptance)
}
