package handlers

import (
	"errors"

	"vendhub/internal/models"
	"vendhub/internal/services/machine"
	"vendhub/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type MachineHandler struct {
	machineService machine.Service
}

func NewMachineHandler(machineService machine.Service) *MachineHandler {
	return &MachineHandler{
		machineService: machineService,
	}
}

func (h *MachineHandler) Create(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)

	var input struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "name is required")
	}

	m, err := h.machineService.Create(c.Context(), vendorID, input.Name, input.Location)
	if err != nil {
		return response.ServerError(c, "failed to create machine")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"machine": m})
}

func (h *MachineHandler) List(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)

	machines, err := h.machineService.List(c.Context(), vendorID)
	if err != nil {
		return response.ServerError(c, "failed to list machines")
	}
	return response.Success(c, "machines retrieved", machines)
}

func (h *MachineHandler) Get(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	m, err := h.machineService.Get(c.Context(), vendorID, uint(machineID))
	if err != nil {
		return h.ownerError(c, err)
	}
	return response.Success(c, "machine retrieved", m)
}

func (h *MachineHandler) Update(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	var input struct {
		Name     string      `json:"name"`
		Location string      `json:"location"`
		IsActive bool        `json:"is_active"`
		Metadata models.JSON `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	m := &models.Machine{
		Name:     input.Name,
		Location: input.Location,
		IsActive: input.IsActive,
		Metadata: input.Metadata,
	}
	m.ID = uint(machineID)
	if err := h.machineService.Update(c.Context(), vendorID, m); err != nil {
		return h.ownerError(c, err)
	}
	return response.Success(c, "machine updated", nil)
}

// ProvisionQR regenerates the machine's QR sticker and returns the printable
// data URL.
func (h *MachineHandler) ProvisionQR(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	token, dataURL, err := h.machineService.ProvisionQR(c.Context(), vendorID, uint(machineID))
	if err != nil {
		return h.ownerError(c, err)
	}
	return response.Success(c, "QR code generated", fiber.Map{
		"qr_code_data": token,
		"qr_image_url": dataURL,
	})
}

func (h *MachineHandler) AddProduct(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	var input struct {
		Name       string `json:"name"`
		PriceCents int    `json:"price_cents"`
		SlotCode   string `json:"slot_code"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Name == "" || input.PriceCents <= 0 {
		return response.BadRequest(c, "name and a positive price are required")
	}

	product := &models.Product{
		MachineID:  uint(machineID),
		Name:       input.Name,
		PriceCents: input.PriceCents,
		SlotCode:   input.SlotCode,
		Quantity:   input.Quantity,
	}
	if err := h.machineService.AddProduct(c.Context(), vendorID, product); err != nil {
		return h.ownerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

func (h *MachineHandler) ListProducts(c *fiber.Ctx) error {
	vendorID := c.Locals("userID").(uint)
	machineID, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "invalid machine id")
	}

	products, err := h.machineService.ListProducts(c.Context(), vendorID, uint(machineID))
	if err != nil {
		return h.ownerError(c, err)
	}
	return response.Success(c, "products retrieved", products)
}

func (h *MachineHandler) ownerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, machine.ErrNotOwner) {
		return response.Error(c, fiber.StatusForbidden, "machine does not belong to you")
	}
	return response.Domain(c, err)
}
