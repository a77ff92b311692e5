package handlers

import (
	"errors"
	"time"

	"vendhub/internal/middleware"
	"vendhub/internal/services/ledger"
	"vendhub/internal/services/poll"
	"vendhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PollHandler struct {
	pollService   poll.Service
	ledgerService ledger.Service
}

func NewPollHandler(pollService poll.Service, ledgerService ledger.Service) *PollHandler {
	return &PollHandler{
		pollService:   pollService,
		ledgerService: ledgerService,
	}
}

// Create opens a poll on one of the vendor's machines.
func (h *PollHandler) Create(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)

	var input struct {
		MachineID uint       `json:"machine_id"`
		Question  string     `json:"question"`
		Options   []string   `json:"options"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	created, err := h.pollService.Create(c.Context(), vendorID, poll.CreateParams{
		MachineID: input.MachineID,
		Question:  input.Question,
		Options:   input.Options,
		ExpiresAt: input.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, poll.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "machine does not belong to you")
		}
		return response.Domain(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"poll": created})
}

// ListByMachine lists a machine's polls for its vendor.
func (h *PollHandler) ListByMachine(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	polls, err := h.pollService.ListByMachine(c.Context(), vendorID, uint(machineID))
	if err != nil {
		if errors.Is(err, poll.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "machine does not belong to you")
		}
		return response.Domain(c, err)
	}
	return response.Success(c, "polls retrieved", polls)
}

// Close deactivates a poll.
func (h *PollHandler) Close(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	pollID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid poll id")
	}

	if err := h.pollService.Close(c.Context(), vendorID, uint(pollID)); err != nil {
		if errors.Is(err, poll.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "poll does not belong to you")
		}
		return response.Domain(c, err)
	}
	return response.Success(c, "poll closed", nil)
}

// Vote books a customer vote. Registered customers are keyed by their account,
// anonymous scanners by their session.
func (h *PollHandler) Vote(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}

	pollID, err := c.ParamsInt("pollId")
	if err != nil {
		return response.BadRequest(c, "invalid poll id")
	}

	var input struct {
		OptionID uint   `json:"optionId"`
		VoteType string `json:"voteType"`
	}
	if err := c.BodyParser(&input); err != nil || input.OptionID == 0 {
		return response.BadRequest(c, "optionId is required")
	}

	voter := ledger.AnonymousVoter(identity.Session.ID)
	if identity.Session.CustomerID != nil {
		voter = ledger.RegisteredVoter(*identity.Session.CustomerID)
	}

	if err := h.ledgerService.Vote(c.Context(), uint(pollID), input.OptionID, voter, input.VoteType); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "vote recorded", nil)
}

// Results returns the aggregated per-option counts and approval percentages.
func (h *PollHandler) Results(c *fiber.Ctx) error {
	pollID, err := c.ParamsInt("pollId")
	if err != nil {
		return response.BadRequest(c, "invalid poll id")
	}

	results, err := h.ledgerService.Results(c.Context(), uint(pollID))
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "poll results", results)
}
