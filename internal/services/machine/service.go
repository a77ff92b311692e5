package machine

import (
	"context"
	"errors"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
	"vendhub/internal/services/qr"
)

var ErrNotOwner = errors.New("machine does not belong to this vendor")

// Service manages vending machines, their products and QR provisioning for
// the owning vendor.
type Service interface {
	Create(ctx context.Context, vendorID uint, name, location string) (*models.Machine, error)
	Get(ctx context.Context, vendorID, machineID uint) (*models.Machine, error)
	List(ctx context.Context, vendorID uint) ([]models.Machine, error)
	Update(ctx context.Context, vendorID uint, machine *models.Machine) error
	// ProvisionQR seals a fresh machine payload, stores it on the machine
	// record and returns the printable data URL.
	ProvisionQR(ctx context.Context, vendorID, machineID uint) (string, string, error)
	AddProduct(ctx context.Context, vendorID uint, product *models.Product) error
	ListProducts(ctx context.Context, vendorID, machineID uint) ([]models.Product, error)
}

type service struct {
	repo  repositories.MachineRepository
	qrSvc qr.Service
}

// NewService creates a new machine service
func NewService(repo repositories.MachineRepository, qrSvc qr.Service) Service {
	if repo == nil {
		panic("machine repository is required")
	}
	if qrSvc == nil {
		panic("qr service is required")
	}
	return &service{repo: repo, qrSvc: qrSvc}
}

func (s *service) Create(ctx context.Context, vendorID uint, name, location string) (*models.Machine, error) {
	machine := &models.Machine{
		VendorID: vendorID,
		Name:     name,
		Location: location,
		IsActive: true,
	}
	if err := s.repo.Create(machine); err != nil {
		return nil, err
	}

	// Provision the initial QR sticker; a machine without one cannot be
	// scanned. Failure here is not fatal, the vendor can regenerate.
	if generated, err := s.qrSvc.Generate(machine.ID); err == nil {
		if err := s.repo.SetQRCodeData(ctx, machine.ID, generated.Token); err == nil {
			machine.QRCodeData = generated.Token
		}
	}
	return machine, nil
}

func (s *service) Get(ctx context.Context, vendorID, machineID uint) (*models.Machine, error) {
	machine, err := s.repo.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, repositories.ErrMachineNotFound) {
			return nil, domainErrors.ErrMachineNotFound
		}
		return nil, err
	}
	if machine.VendorID != vendorID {
		return nil, ErrNotOwner
	}
	return machine, nil
}

func (s *service) List(ctx context.Context, vendorID uint) ([]models.Machine, error) {
	return s.repo.ListByVendor(vendorID)
}

func (s *service) Update(ctx context.Context, vendorID uint, machine *models.Machine) error {
	existing, err := s.Get(ctx, vendorID, machine.ID)
	if err != nil {
		return err
	}
	// Vendor-editable fields only; QR data and ownership never change here.
	existing.Name = machine.Name
	existing.Location = machine.Location
	existing.IsActive = machine.IsActive
	existing.Metadata = machine.Metadata
	return s.repo.Update(existing)
}

func (s *service) ProvisionQR(ctx context.Context, vendorID, machineID uint) (string, string, error) {
	if _, err := s.Get(ctx, vendorID, machineID); err != nil {
		return "", "", err
	}

	generated, err := s.qrSvc.Generate(machineID)
	if err != nil {
		return "", "", err
	}
	if err := s.repo.SetQRCodeData(ctx, machineID, generated.Token); err != nil {
		return "", "", err
	}

	dataURL, err := s.qrSvc.RenderDataURL(generated.Token)
	if err != nil {
		return "", "", err
	}
	return generated.Token, dataURL, nil
}

func (s *service) AddProduct(ctx context.Context, vendorID uint, product *models.Product) error {
	if _, err := s.Get(ctx, vendorID, product.MachineID); err != nil {
		return err
	}
	return s.repo.CreateProduct(product)
}

func (s *service) ListProducts(ctx context.Context, vendorID, machineID uint) ([]models.Product, error) {
	if _, err := s.Get(ctx, vendorID, machineID); err != nil {
		return nil, err
	}
	return s.repo.ListProducts(machineID)
}
