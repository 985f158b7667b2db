package layout

import (
	"github.com/matzehuels/sitegraph/pkg/errors"
)

// Default geometry.
const (
	DefaultAnchorX           = 400
	DefaultAnchorY           = 50
	DefaultHorizontalSpacing = 250
	DefaultVerticalSpacing   = 120
	DefaultNodeWidth         = 200
	DefaultNodeHeight        = 50
	DefaultPadding           = 20
	DefaultMaxShiftAttempts  = 50
	DefaultMaxIterations     = 100
)

// Config controls layout geometry. All distances are in abstract units
// (pixels in the SVG renderer).
type Config struct {
	AnchorX           float64 `toml:"anchor_x" json:"anchorX"`
	AnchorY           float64 `toml:"anchor_y" json:"anchorY"`
	HorizontalSpacing float64 `toml:"horizontal_spacing" json:"horizontalSpacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing" json:"verticalSpacing"`
	NodeWidth         float64 `toml:"node_width" json:"nodeWidth"`
	NodeHeight        float64 `toml:"node_height" json:"nodeHeight"`
	Padding           float64 `toml:"padding" json:"padding"`
	MaxShiftAttempts  int     `toml:"max_shift_attempts" json:"maxShiftAttempts"`
	MaxIterations     int     `toml:"max_iterations" json:"maxIterations"`
}

// DefaultConfig returns the default geometry.
func DefaultConfig() Config {
	return Config{
		AnchorX:           DefaultAnchorX,
		AnchorY:           DefaultAnchorY,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
		Padding:           DefaultPadding,
		MaxShiftAttempts:  DefaultMaxShiftAttempts,
		MaxIterations:     DefaultMaxIterations,
	}
}

// WithDefaults fills zero fields from DefaultConfig. Anchor coordinates are
// left alone since zero is a legitimate anchor.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.HorizontalSpacing == 0 {
		c.HorizontalSpacing = d.HorizontalSpacing
	}
	if c.VerticalSpacing == 0 {
		c.VerticalSpacing = d.VerticalSpacing
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.Padding == 0 {
		c.Padding = d.Padding
	}
	if c.MaxShiftAttempts == 0 {
		c.MaxShiftAttempts = d.MaxShiftAttempts
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = d.MaxIterations
	}
	return c
}

// Validate rejects geometry the placement cannot work with.
func (c Config) Validate() error {
	switch {
	case c.HorizontalSpacing <= 0, c.VerticalSpacing <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout spacing must be positive")
	case c.NodeWidth <= 0, c.NodeHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout node size must be positive")
	case c.Padding < 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout padding must not be negative")
	case c.MaxShiftAttempts < 0, c.MaxIterations < 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout attempt limits must not be negative")
	}
	return nil
}
