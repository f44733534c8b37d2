// Package mapgeo holds the static map geometry store: named axis-aligned
// boundaries (areas, walls, objects, stairs, ramps, bomb sites), elevation
// queries, AABB raycasting and line-of-sight tests.
//
// Geometry is immutable after load and shared read-only across all rounds
// of a match.
package mapgeo

import (
	"math"
)

// Vec3 is a point or direction in map space. X/Y are the horizontal plane,
// Z is elevation.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthXY returns the horizontal length of v, ignoring Z.
func (v Vec3) LengthXY() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// DistXY returns the horizontal distance between a and b.
func DistXY(a, b Vec3) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Dist returns the 3D distance between a and b.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Sphere is a smoke volume used for line-of-sight occlusion.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Blocks reports whether the sphere occludes the segment from a to b.
// The segment is blocked when its closest approach to the center is within
// the radius.
func (s Sphere) Blocks(a, b Vec3) bool {
	return distPointSegment(s.Center, a, b) <= s.Radius
}

// distPointSegment returns the distance from point p to segment ab.
func distPointSegment(p, a, b Vec3) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return Dist(p, closest)
}

// rayAABB performs the per-axis slab intersection of a ray against the box
// [min, max]. It returns the entry distance along dir and true on a hit
// within maxRange. dir does not need to be normalized but the returned t is
// in units of dir's length.
func rayAABB(origin, dir, min, max Vec3, maxRange float64) (float64, bool) {
	tMin := 0.0
	tMax := maxRange

	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = origin.X, dir.X, min.X, max.X
		case 1:
			o, d, lo, hi = origin.Y, dir.Y, min.Y, max.Y
		default:
			o, d, lo, hi = origin.Z, dir.Z, min.Z, max.Z
		}

		if math.Abs(d) < 1e-12 {
			// Ray parallel to the slab. Miss unless origin lies inside it.
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}
