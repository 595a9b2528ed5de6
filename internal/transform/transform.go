/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transform holds the overlay pose and its update rules.
//
// The composition order used to place the overlay is fixed:
//
//	translate(center) -> rotate(rotation) -> mirror (if FlipX) -> scale(scale)
//
// Matrix builds it; both the preview renderer and the exporter go through Matrix,
// so they cannot disagree about where the overlay sits.
package transform

import (
	"math"

	"fairhat/internal/domain"
)

const (
	RotateStep      = 15.0
	ScaleUpFactor   = 1.1
	ScaleDownFactor = 0.9
	MinScale        = 0.1
	MaxScale        = 7.0
)

// RotateDirection selects the rotation sense. Left is counter-clockwise on screen.
type RotateDirection int

const (
	Left RotateDirection = iota
	Right
)

func (d RotateDirection) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// ScaleDirection selects growing or shrinking.
type ScaleDirection int

const (
	Up ScaleDirection = iota
	Down
)

func (d ScaleDirection) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Transform is the overlay pose. Position is a display-space offset from the
// container center; Rotation is in degrees and unbounded; Scale stays in [MinScale, MaxScale].
type Transform struct {
	Position domain.Point `json:"position"`
	Rotation float64      `json:"rotation"`
	Scale    float64      `json:"scale"`
	FlipX    bool         `json:"flipX"`
}

// Identity returns the resting pose.
func Identity() Transform { return Transform{Scale: 1} }

// Rotate adds -RotateStep (left) or +RotateStep (right) degrees.
func (t Transform) Rotate(dir RotateDirection) Transform { return DefaultSteps().Rotate(t, dir) }

// ScaleBy multiplies the scale by ScaleUpFactor or ScaleDownFactor and clamps.
func (t Transform) ScaleBy(dir ScaleDirection) Transform { return DefaultSteps().ScaleBy(t, dir) }

// SetPosition replaces the position. Positions are not bounds-checked.
func (t Transform) SetPosition(p domain.Point) Transform {
	t.Position = p
	return t
}

// ToggleMirror flips FlipX.
func (t Transform) ToggleMirror() Transform {
	t.FlipX = !t.FlipX
	return t
}

// Reset returns the identity pose regardless of t.
func (t Transform) Reset() Transform { return Identity() }

// WithScale sets the scale, clamped.
func (t Transform) WithScale(s float64) Transform {
	t.Scale = ClampScale(s)
	return t
}

// NormalizedRotation returns Rotation modulo 360 in [0, 360).
func (t Transform) NormalizedRotation() float64 {
	r := math.Mod(t.Rotation, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// IsIdentity reports whether t equals the resting pose.
func (t Transform) IsIdentity() bool { return t == Identity() }

// Matrix returns the overlay placement for an overlay drawn centered on the origin
// of its own local space, with center the target location of that origin.
func (t Transform) Matrix(center domain.Point) Affine {
	m := Translate(center.X, center.Y).Mul(Rotate(t.Rotation * math.Pi / 180))
	if t.FlipX {
		m = m.Mul(MirrorX())
	}
	s := ClampScale(t.Scale)
	return m.Mul(Scale(s, s))
}

// Hits reports whether p lies on an overlay of the given size (in the same units as p)
// placed by Matrix(center).
func (t Transform) Hits(center domain.Point, w, h float64, p domain.Point) bool {
	inv, ok := t.Matrix(center).Invert()
	if !ok {
		return false
	}
	q := inv.Apply(p)
	return q.X >= -w/2 && q.X <= w/2 && q.Y >= -h/2 && q.Y <= h/2
}

// ClampScale limits s to [MinScale, MaxScale]. NaN maps to 1.
func ClampScale(s float64) float64 {
	switch {
	case math.IsNaN(s):
		return 1
	case s < MinScale:
		return MinScale
	case s > MaxScale:
		return MaxScale
	default:
		return s
	}
}

// Steps are the increments applied by Rotate and ScaleBy.
type Steps struct {
	RotateDegrees float64
	UpFactor      float64
	DownFactor    float64
}

// DefaultSteps returns 15 degrees, x1.1 and x0.9.
func DefaultSteps() Steps {
	return Steps{RotateDegrees: RotateStep, UpFactor: ScaleUpFactor, DownFactor: ScaleDownFactor}
}

// Normalize replaces unusable values with the defaults.
func (s Steps) Normalize() Steps {
	d := DefaultSteps()
	if s.RotateDegrees <= 0 || math.IsNaN(s.RotateDegrees) {
		s.RotateDegrees = d.RotateDegrees
	}
	if s.UpFactor <= 1 || math.IsNaN(s.UpFactor) {
		s.UpFactor = d.UpFactor
	}
	if s.DownFactor <= 0 || s.DownFactor >= 1 || math.IsNaN(s.DownFactor) {
		s.DownFactor = d.DownFactor
	}
	return s
}

func (s Steps) Rotate(t Transform, dir RotateDirection) Transform {
	s = s.Normalize()
	if dir == Left {
		t.Rotation -= s.RotateDegrees
	} else {
		t.Rotation += s.RotateDegrees
	}
	return t
}

func (s Steps) ScaleBy(t Transform, dir ScaleDirection) Transform {
	s = s.Normalize()
	f := s.DownFactor
	if dir == Up {
		f = s.UpFactor
	}
	t.Scale = ClampScale(ClampScale(t.Scale) * f)
	return t
}
