package handlers

import (
	"errors"

	"vendhub/internal/services/machine"
	"vendhub/internal/services/session"
	"vendhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler serves vendor-side session diagnostics.
type SessionHandler struct {
	sessionService session.Service
	machineService machine.Service
}

func NewSessionHandler(sessionService session.Service, machineService machine.Service) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		machineService: machineService,
	}
}

// ActiveByMachine lists the live sessions on one of the vendor's machines.
func (h *SessionHandler) ActiveByMachine(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	if _, err := h.machineService.Get(c.Context(), vendorID, uint(machineID)); err != nil {
		if errors.Is(err, machine.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "machine does not belong to you")
		}
		return response.Domain(c, err)
	}

	sessions, err := h.sessionService.GetActiveSessions(c.Context(), uint(machineID))
	if err != nil {
		return response.ServerError(c, "failed to list sessions")
	}
	return response.Success(c, "active sessions", fiber.Map{
		"count":    len(sessions),
		"sessions": sessions,
	})
}
