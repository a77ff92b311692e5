package handlers

import (
	"errors"
	"time"

	"vendhub/internal/models"
	"vendhub/internal/services/discount"
	"vendhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DiscountHandler struct {
	discountService discount.Service
}

func NewDiscountHandler(discountService discount.Service) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
	}
}

func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)

	var input struct {
		MachineID     uint       `json:"machine_id"`
		ProductID     *uint      `json:"product_id"`
		Code          string     `json:"code"`
		DiscountType  string     `json:"discount_type"`
		DiscountValue float64    `json:"discount_value"`
		MaxUses       *int       `json:"max_uses"`
		ValidFrom     *time.Time `json:"valid_from"`
		ValidUntil    *time.Time `json:"valid_until"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.MachineID == 0 || input.DiscountValue <= 0 {
		return response.BadRequest(c, "machine_id and a positive discount_value are required")
	}

	code := &models.DiscountCode{
		VendorID:      vendorID,
		MachineID:     input.MachineID,
		ProductID:     input.ProductID,
		Code:          input.Code,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MaxUses:       input.MaxUses,
		ValidFrom:     input.ValidFrom,
		ValidUntil:    input.ValidUntil,
	}

	created, err := h.discountService.Create(c.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, discount.ErrDuplicateCode):
			return response.Error(c, fiber.StatusConflict, "discount code already exists")
		case errors.Is(err, discount.ErrInvalidCode), errors.Is(err, discount.ErrInvalidType):
			return response.BadRequest(c, err.Error())
		default:
			return response.ServerError(c, "failed to create discount code")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"discount": created})
}

func (h *DiscountHandler) List(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)

	discounts, err := h.discountService.List(c.Context(), vendorID)
	if err != nil {
		return response.ServerError(c, "failed to list discount codes")
	}
	return response.Success(c, "discount codes retrieved", discounts)
}

func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	discountID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid discount id")
	}

	var input struct {
		DiscountType  string     `json:"discount_type"`
		DiscountValue float64    `json:"discount_value"`
		MaxUses       *int       `json:"max_uses"`
		ValidFrom     *time.Time `json:"valid_from"`
		ValidUntil    *time.Time `json:"valid_until"`
		IsActive      bool       `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	code := &models.DiscountCode{
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MaxUses:       input.MaxUses,
		ValidFrom:     input.ValidFrom,
		ValidUntil:    input.ValidUntil,
		IsActive:      input.IsActive,
	}
	code.ID = uint(discountID)

	if err := h.discountService.Update(c.Context(), vendorID, code); err != nil {
		if errors.Is(err, discount.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "discount does not belong to you")
		}
		return response.Domain(c, err)
	}
	return response.Success(c, "discount updated", nil)
}

func (h *DiscountHandler) Deactivate(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	discountID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid discount id")
	}

	if err := h.discountService.Deactivate(c.Context(), vendorID, uint(discountID)); err != nil {
		if errors.Is(err, discount.ErrNotOwner) {
			return response.Error(c, fiber.StatusForbidden, "discount does not belong to you")
		}
		return response.Domain(c, err)
	}
	return response.Success(c, "discount deactivated", nil)
}
