package qr

import (
	"fmt"
	"sort"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
)

// Registry holds the strategy list, sorted by descending priority and
// immutable after construction, so concurrent reads need no locking.
// The default is resolved by name at construction time rather than by
// list position, so registering a new high-priority strategy cannot
// silently change which one handles untagged requests.
type Registry struct {
	strategies []Strategy
	fallback   Strategy
}

// NewRegistry builds a registry from the given strategies. One of them
// must be named STANDARD; it serves requests no strategy claims.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("qr registry needs at least one strategy")
	}

	sorted := make([]Strategy, len(strategies))
	copy(sorted, strategies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	var fallback Strategy
	for _, s := range sorted {
		if s.Name() == StandardName {
			fallback = s
			break
		}
	}
	if fallback == nil {
		return nil, fmt.Errorf("qr registry requires a strategy named %s", StandardName)
	}

	return &Registry{strategies: sorted, fallback: fallback}, nil
}

// NewDefaultRegistry wires the production strategy set.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(NewStandardStrategy(), NewSecureStrategy())
}

// Select returns the highest-priority strategy that supports the request,
// falling back to the STANDARD strategy.
func (r *Registry) Select(req Request) Strategy {
	for _, s := range r.strategies {
		if s.Supports(req) {
			return s
		}
	}
	return r.fallback
}

// Generate renders the request with the selected strategy. Encoder
// failures surface as QRCODE_GENERATION_FAILED and are not retried.
func (r *Registry) Generate(req Request) (*Image, *apperrors.AppError) {
	img, err := r.Select(req).Generate(req)
	if err != nil {
		return nil, apperrors.QRGenerationFailed(err)
	}
	return img, nil
}

// Strategies returns the priority-ordered strategy list.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}
