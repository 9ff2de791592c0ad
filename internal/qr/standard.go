package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	StandardName = "STANDARD"

	standardPriority  = 10
	standardSizePx    = 300
	standardQuietZone = 4
)

// StandardStrategy renders general-purpose codes: medium error correction,
// small quiet zone, cheap to generate.
type StandardStrategy struct{}

func NewStandardStrategy() *StandardStrategy {
	return &StandardStrategy{}
}

func (s *StandardStrategy) Name() string {
	return StandardName
}

func (s *StandardStrategy) Priority() int {
	return standardPriority
}

func (s *StandardStrategy) Supports(req Request) bool {
	return req.Tag == "" || req.Tag == StandardName
}

func (s *StandardStrategy) Generate(req Request) (*Image, error) {
	size := req.SizePx
	if size <= 0 {
		size = standardSizePx
	}
	return renderPNG(req.Content, size, qrcode.Medium, standardQuietZone)
}
