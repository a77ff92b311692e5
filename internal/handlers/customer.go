package handlers

import (
	"path/filepath"
	"strconv"

	"vendhub/internal/middleware"
	"vendhub/internal/services/ledger"
	"vendhub/internal/services/session"
	"vendhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CustomerHandler serves the customer-facing surface: QR login, account
// linking, discount redemption, proof submissions and loyalty points.
type CustomerHandler struct {
	sessionService session.Service
	ledgerService  ledger.Service
	uploadDir      string
}

func NewCustomerHandler(sessionService session.Service, ledgerService ledger.Service, uploadDir string) *CustomerHandler {
	return &CustomerHandler{
		sessionService: sessionService,
		ledgerService:  ledgerService,
		uploadDir:      uploadDir,
	}
}

// QRLogin exchanges a scanned QR payload for a session token.
func (h *CustomerHandler) QRLogin(c *fiber.Ctx) error {
	var input struct {
		QRData string `json:"qrData"`
	}
	if err := c.BodyParser(&input); err != nil || input.QRData == "" {
		return response.BadRequest(c, "qrData is required")
	}

	sess, machine, err := h.sessionService.QRLogin(c.Context(), input.QRData, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return response.Domain(c, err)
	}

	return c.JSON(fiber.Map{
		"sessionToken": sess.SessionToken,
		"expiresAt":    sess.ExpiresAt,
		"machine": fiber.Map{
			"id":       machine.ID,
			"name":     machine.Name,
			"location": machine.Location,
		},
	})
}

// Link attaches a registered customer account to the current session.
func (h *CustomerHandler) Link(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}

	var input struct {
		CustomerID uint `json:"customer_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.CustomerID == 0 {
		return response.BadRequest(c, "customer_id is required")
	}

	sess, err := h.sessionService.LinkToCustomer(c.Context(), identity.Session.SessionToken, input.CustomerID)
	if err != nil {
		return response.Domain(c, err)
	}

	payload := fiber.Map{
		"session_id":  sess.ID,
		"customer_id": sess.CustomerID,
		"machine_id":  sess.MachineID,
	}
	if count, err := h.sessionService.GetCustomerSessionCount(c.Context(), input.CustomerID); err == nil {
		payload["total_scans"] = count
	}
	return response.Success(c, "session linked", payload)
}

// Machine returns the machine the current session is scoped to.
func (h *CustomerHandler) Machine(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}
	return response.Success(c, "session machine", fiber.Map{
		"machine_id": identity.Session.MachineID,
		"expires_at": identity.Session.ExpiresAt,
	})
}

// Redeem consumes a discount code for the linked customer at the session's
// machine.
func (h *CustomerHandler) Redeem(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}
	if identity.Session.CustomerID == nil {
		return response.BadRequest(c, "session is not linked to a customer account")
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil || input.Code == "" {
		return response.BadRequest(c, "code is required")
	}

	discount, _, err := h.ledgerService.Redeem(c.Context(), input.Code, *identity.Session.CustomerID, identity.Session.MachineID)
	if err != nil {
		return response.Domain(c, err)
	}

	return c.JSON(fiber.Map{
		"discountType":  discount.DiscountType,
		"discountValue": discount.DiscountValue,
	})
}

// SubmitProof records a proof-of-purchase redemption (multipart upload) and
// awards loyalty points.
func (h *CustomerHandler) SubmitProof(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}
	if identity.Session.CustomerID == nil {
		return response.BadRequest(c, "session is not linked to a customer account")
	}

	discountID, err := strconv.Atoi(c.FormValue("discount_id"))
	if err != nil || discountID <= 0 {
		return response.BadRequest(c, "discount_id is required")
	}

	file, err := c.FormFile("proof_image")
	if err != nil {
		return response.BadRequest(c, "proof_image is required")
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	dest := filepath.Join(h.uploadDir, filename)
	if err := c.SaveFile(file, dest); err != nil {
		return response.ServerError(c, "failed to store proof image")
	}

	result, err := h.ledgerService.SubmitProofRedemption(
		c.Context(),
		uint(discountID),
		*identity.Session.CustomerID,
		identity.Session.MachineID,
		"/uploads/"+filename,
	)
	if err != nil {
		return response.Domain(c, err)
	}

	return c.JSON(fiber.Map{
		"pointsAwarded":       result.PointsAwarded,
		"totalPoints":         result.PointsBalance,
		"totalLifetimePoints": result.LifetimePoints,
	})
}

// Points returns the linked customer's loyalty balance at the session's
// machine.
func (h *CustomerHandler) Points(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil || identity.Session == nil {
		return response.Unauthorized(c)
	}
	if identity.Session.CustomerID == nil {
		return response.BadRequest(c, "session is not linked to a customer account")
	}

	loyalty, err := h.ledgerService.GetPoints(c.Context(), *identity.Session.CustomerID, identity.Session.MachineID)
	if err != nil {
		return response.ServerError(c, "failed to get points")
	}
	return response.Success(c, "loyalty points", fiber.Map{
		"points_balance":  loyalty.PointsBalance,
		"lifetime_points": loyalty.LifetimePoints,
	})
}
