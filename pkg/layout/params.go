package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by [Params.Validate] and [New] when a
// parameter is out of range.
var ErrInvalidParams = errors.New("invalid layout parameters")

// Default parameter values.
const (
	DefaultSpringConstant  = 0.01
	DefaultTargetDensity   = 150
	DefaultMinSpringLength = 10
	DefaultDamping         = 0.9
)

// Params tunes the spring model.
type Params struct {
	// SpringConstant scales every spring force. Zero disables all forces.
	SpringConstant float64 `json:"spring_constant" toml:"spring_constant"`
	// TargetDensity is the spacing per sqrt(node) of unrelated nodes.
	TargetDensity float64 `json:"target_density" toml:"target_density"`
	// MinSpringLength is the floor for every spring's rest length.
	MinSpringLength float64 `json:"min_spring_length" toml:"min_spring_length"`
	// Damping multiplies velocity every tick. Must lie strictly in (0, 1).
	Damping float64 `json:"damping" toml:"damping"`
}

// DefaultParams returns the default spring model.
func DefaultParams() Params {
	return Params{
		SpringConstant:  DefaultSpringConstant,
		TargetDensity:   DefaultTargetDensity,
		MinSpringLength: DefaultMinSpringLength,
		Damping:         DefaultDamping,
	}
}

// SetDefaults fills zero fields with their default values.
// SpringConstant and MinSpringLength are left alone since zero is valid.
func (p *Params) SetDefaults() {
	if p.TargetDensity == 0 {
		p.TargetDensity = DefaultTargetDensity
	}
	if p.Damping == 0 {
		p.Damping = DefaultDamping
	}
}

// Validate reports whether every parameter is in range.
func (p Params) Validate() error {
	switch {
	case !(p.Damping > 0 && p.Damping < 1):
		return fmt.Errorf("%w: damping %v not in (0, 1)", ErrInvalidParams, p.Damping)
	case !(p.TargetDensity > 0):
		return fmt.Errorf("%w: target density %v must be positive", ErrInvalidParams, p.TargetDensity)
	case !(p.SpringConstant >= 0):
		return fmt.Errorf("%w: spring constant %v must not be negative", ErrInvalidParams, p.SpringConstant)
	case !(p.MinSpringLength >= 0):
		return fmt.Errorf("%w: min spring length %v must not be negative", ErrInvalidParams, p.MinSpringLength)
	}
	return nil
}
