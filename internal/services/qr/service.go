package qr

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	domainErrors "vendhub/internal/errors"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultMaxAge bounds how old a scanned payload may be. Printed stickers
	// are long-lived by design; this is a soft anti-replay control, not a
	// security boundary.
	DefaultMaxAge = 365 * 24 * time.Hour

	imageSize = 300
)

type service struct {
	envelope *Envelope
	maxAge   time.Duration
}

// NewService creates a new QR payload service. maxAge <= 0 falls back to
// DefaultMaxAge.
func NewService(envelope *Envelope, maxAge time.Duration) Service {
	if envelope == nil {
		panic("envelope is required")
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &service{
		envelope: envelope,
		maxAge:   maxAge,
	}
}

func (s *service) Generate(machineID uint) (*GeneratedQR, error) {
	payload := MachinePayload{
		MachineID: machineID,
		Timestamp: time.Now().UnixMilli(),
		UniqueID:  uuid.NewString(),
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	token, err := s.envelope.Seal(plaintext)
	if err != nil {
		return nil, err
	}

	return &GeneratedQR{Token: token, Payload: payload}, nil
}

func (s *service) Validate(token string) (*MachinePayload, error) {
	plaintext, err := s.envelope.Open(token)
	if err != nil {
		return nil, domainErrors.ErrInvalidQRPayload
	}

	// The envelope is unauthenticated, so the decrypted bytes prove nothing
	// by themselves; the structural checks below are the gate.
	var payload MachinePayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, domainErrors.ErrInvalidQRPayload
	}
	if payload.MachineID == 0 || payload.Timestamp == 0 || payload.UniqueID == "" {
		return nil, domainErrors.ErrInvalidQRPayload
	}

	age := time.Since(time.UnixMilli(payload.Timestamp))
	if age > s.maxAge {
		return nil, domainErrors.ErrQRPayloadExpired
	}

	return &payload, nil
}

func (s *service) RenderImage(token string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return qrcode.WriteFile(token, qrcode.Highest, imageSize, path)
}

func (s *service) RenderDataURL(token string) (string, error) {
	png, err := qrcode.Encode(token, qrcode.Highest, imageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
