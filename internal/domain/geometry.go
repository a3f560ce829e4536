package domain

import "fmt"

// CoverArea is the normalized rectangle on the mockup canvas where a user
// design is placed. All components are fractions of the canvas in [0,1].
type CoverArea struct {
	X      float64 `bson:"x" json:"x"`
	Y      float64 `bson:"y" json:"y"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// DefaultCoverArea covers the whole mockup canvas.
func DefaultCoverArea() CoverArea {
	return CoverArea{X: 0, Y: 0, Width: 1, Height: 1}
}

// Validate rejects any rectangle that leaves the unit square. Out-of-range
// values are never clamped: a silently adjusted rectangle would move the
// design on the printed product.
func (a CoverArea) Validate() error {
	if a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
		return fmt.Errorf("%w: origin (%.3f, %.3f) outside [0,1]", ErrInvalidGeometry, a.X, a.Y)
	}
	if a.Width < 0 || a.Width > 1 || a.Height < 0 || a.Height > 1 {
		return fmt.Errorf("%w: dimensions (%.3f x %.3f) outside [0,1]", ErrInvalidGeometry, a.Width, a.Height)
	}
	if a.X+a.Width > 1 {
		return fmt.Errorf("%w: x+width = %.3f exceeds 1", ErrInvalidGeometry, a.X+a.Width)
	}
	if a.Y+a.Height > 1 {
		return fmt.Errorf("%w: y+height = %.3f exceeds 1", ErrInvalidGeometry, a.Y+a.Height)
	}
	return nil
}

// CoverSize is the physical pixel size of the rendered design canvas.
type CoverSize struct {
	Width  int `bson:"width" json:"width"`
	Height int `bson:"height" json:"height"`
}

// DefaultCoverSize matches the original store default of 300x500 px.
func DefaultCoverSize() CoverSize {
	return CoverSize{Width: 300, Height: 500}
}

// SizeBounds is the admissible pixel range for cover dimensions. The range is
// injected configuration; DefaultSizeBounds mirrors the 100-2000 px limits the
// admin tooling enforces.
type SizeBounds struct {
	Min int
	Max int
}

func DefaultSizeBounds() SizeBounds {
	return SizeBounds{Min: 100, Max: 2000}
}

// Validate rejects non-positive or out-of-bounds dimensions.
func (s CoverSize) Validate(b SizeBounds) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: cover size %dx%d must be positive", ErrInvalidGeometry, s.Width, s.Height)
	}
	if s.Width < b.Min || s.Height < b.Min {
		return fmt.Errorf("%w: cover size %dx%d below minimum %d", ErrInvalidGeometry, s.Width, s.Height, b.Min)
	}
	if s.Width > b.Max || s.Height > b.Max {
		return fmt.Errorf("%w: cover size %dx%d above maximum %d", ErrInvalidGeometry, s.Width, s.Height, b.Max)
	}
	return nil
}

// CoverGeometry pairs the placement rectangle with the physical canvas size.
// Setters validate; values are stored verbatim once accepted.
type CoverGeometry struct {
	Area   CoverArea
	Size   CoverSize
	Bounds SizeBounds
}

func NewCoverGeometry(b SizeBounds) CoverGeometry {
	return CoverGeometry{
		Area:   DefaultCoverArea(),
		Size:   DefaultCoverSize(),
		Bounds: b,
	}
}

func (g *CoverGeometry) SetArea(a CoverArea) error {
	if err := a.Validate(); err != nil {
		return err
	}
	g.Area = a
	return nil
}

func (g *CoverGeometry) SetSize(s CoverSize) error {
	if err := s.Validate(g.Bounds); err != nil {
		return err
	}
	g.Size = s
	return nil
}

// Placement is the triple an external renderer needs: on what background,
// where, and at what resolution a user design is composited.
type Placement struct {
	MockupImage string    `json:"mockupImage"`
	Area        CoverArea `json:"coverArea"`
	Size        CoverSize `json:"coverSize"`
}

// Compose bundles the geometry with the mockup background for the renderer.
func (g CoverGeometry) Compose(mockupImage string) Placement {
	return Placement{MockupImage: mockupImage, Area: g.Area, Size: g.Size}
}
