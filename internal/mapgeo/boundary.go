package mapgeo

import "math"

// BoundaryType classifies a map boundary.
type BoundaryType uint8

const (
	TypeArea BoundaryType = iota
	TypeWall
	TypeObject
	TypeStairs
	TypeRamp
	TypeBombSite
)

// String returns a human-readable boundary type name.
func (t BoundaryType) String() string {
	switch t {
	case TypeArea:
		return "area"
	case TypeWall:
		return "wall"
	case TypeObject:
		return "object"
	case TypeStairs:
		return "stairs"
	case TypeRamp:
		return "ramp"
	case TypeBombSite:
		return "bomb-site"
	default:
		return "unknown"
	}
}

// SlopeDirection is the axis and sense a ramp or stairs rises along.
type SlopeDirection uint8

const (
	SlopeEast  SlopeDirection = iota // Rises toward +X
	SlopeWest                        // Rises toward -X
	SlopeNorth                       // Rises toward +Y
	SlopeSouth                       // Rises toward -Y
)

// Boundary is a named axis-aligned 3D box. The footprint is [X, X+W] x
// [Y, Y+H], the vertical extent [Z, Z+HeightZ]. Ramps and stairs rise from Z
// to Z+HeightZ along Direction; stairs quantize the slope into Steps levels.
type Boundary struct {
	Name      string
	Type      BoundaryType
	X, Y      float64
	W, H      float64
	Z         float64 // Base elevation
	HeightZ   float64 // Vertical extent above the base
	Direction SlopeDirection
	Steps     int
}

// Contains reports whether (x, y) lies within the footprint.
// Points exactly on the boundary are inclusive.
func (b *Boundary) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Top returns the elevation of the boundary's upper surface.
func (b *Boundary) Top() float64 {
	return b.Z + b.HeightZ
}

// Min returns the box minimum corner.
func (b *Boundary) Min() Vec3 {
	return Vec3{b.X, b.Y, b.Z}
}

// Max returns the box maximum corner.
func (b *Boundary) Max() Vec3 {
	return Vec3{b.X + b.W, b.Y + b.H, b.Z + b.HeightZ}
}

// slopeFraction returns how far along the rise (x, y) sits, in [0, 1].
func (b *Boundary) slopeFraction(x, y float64) float64 {
	var f float64
	switch b.Direction {
	case SlopeEast:
		f = (x - b.X) / b.W
	case SlopeWest:
		f = (b.X + b.W - x) / b.W
	case SlopeNorth:
		f = (y - b.Y) / b.H
	case SlopeSouth:
		f = (b.Y + b.H - y) / b.H
	}
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return f
}

// SurfaceElevation returns the walkable elevation at (x, y) inside the
// footprint. Ramps interpolate linearly, stairs quantize into Steps levels,
// everything else is flat at the base elevation.
func (b *Boundary) SurfaceElevation(x, y float64) float64 {
	switch b.Type {
	case TypeRamp:
		return b.Z + b.slopeFraction(x, y)*b.HeightZ
	case TypeStairs:
		steps := b.Steps
		if steps < 2 {
			steps = 2
		}
		level := math.Floor(b.slopeFraction(x, y) * float64(steps))
		if level > float64(steps-1) {
			level = float64(steps - 1)
		}
		return b.Z + (level/float64(steps-1))*b.HeightZ
	default:
		return b.Z
	}
}

// overlapsCircle reports whether the footprint expanded by radius contains
// (x, y).
func (b *Boundary) overlapsCircle(x, y, radius float64) bool {
	cx := clamp(x, b.X, b.X+b.W)
	cy := clamp(y, b.Y, b.Y+b.H)
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= radius*radius
}

// overlapsVertical reports whether [z, z+height] intersects the boundary's
// vertical extent.
func (b *Boundary) overlapsVertical(z, height float64) bool {
	return z < b.Top() && z+height > b.Z
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
