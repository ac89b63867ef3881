package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/reelpay/internal/service"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
)

type ClaimHandler struct {
	s service.ClaimService
}

func NewClaimHandler(service service.ClaimService) *ClaimHandler {
	return &ClaimHandler{s: service}
}

func (h *ClaimHandler) CreateClaim(c *fiber.Ctx) error {
	created, err := h.s.Create(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ClaimHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.s.Summary(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *ClaimHandler) ResolveClaim(c *fiber.Ctx) error {
	claimID, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	var req transfer.ClaimResolution
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, errutil.Validation("invalid request body"))
	}

	claim, err := h.s.Resolve(c.UserContext(), claimID, GetUserID(c), req.Status, req.RejectionReason)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(claim)
}
