package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	SecureName = "SECURE"

	securePriority  = 20
	secureSizePx    = 400
	secureQuietZone = 16
)

// SecureStrategy renders check-in codes. These get printed small,
// photographed at an angle, or partially obscured, so it trades code
// density for the highest error-correction level and a wide quiet zone.
type SecureStrategy struct{}

func NewSecureStrategy() *SecureStrategy {
	return &SecureStrategy{}
}

func (s *SecureStrategy) Name() string {
	return SecureName
}

func (s *SecureStrategy) Priority() int {
	return securePriority
}

func (s *SecureStrategy) Supports(req Request) bool {
	return req.Tag == SecureName
}

func (s *SecureStrategy) Generate(req Request) (*Image, error) {
	size := req.SizePx
	if size <= 0 {
		size = secureSizePx
	}
	return renderPNG(req.Content, size, qrcode.Highest, secureQuietZone)
}
