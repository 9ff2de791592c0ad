package qr

// Request describes one QR render. Size and format fall back to the
// selected strategy's defaults when zero-valued.
type Request struct {
	Content string
	SizePx  int
	Format  string
	// Tag selects a strategy by name (e.g. "SECURE"). Empty or
	// unrecognized tags fall through to the default strategy.
	Tag string
}

// Image is a rendered QR code.
type Image struct {
	Bytes       []byte
	ContentType string
	SizePx      int
}

// Strategy is a named, priority-ranked encoder profile. Higher priority
// wins when several strategies support the same request.
type Strategy interface {
	Name() string
	Priority() int
	Supports(req Request) bool
	Generate(req Request) (*Image, error)
}
