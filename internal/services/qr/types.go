package qr

// MachinePayload is the structured data a machine's printed QR code encodes.
// Timestamp is epoch milliseconds; UniqueID distinguishes regenerated
// stickers for the same machine.
type MachinePayload struct {
	MachineID uint   `json:"machineId"`
	Timestamp int64  `json:"timestamp"`
	UniqueID  string `json:"uniqueId"`
}

// GeneratedQR bundles the sealed token with the payload it encodes.
type GeneratedQR struct {
	Token   string
	Payload MachinePayload
}
