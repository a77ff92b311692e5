package qr

// Service defines the interface for machine QR payload operations.
type Service interface {
	// Generation
	Generate(machineID uint) (*GeneratedQR, error)

	// Validation
	Validate(token string) (*MachinePayload, error)

	// Rendering
	RenderImage(token string, path string) error
	RenderDataURL(token string) (string, error)
}
