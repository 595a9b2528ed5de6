/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transform

// 2D affine matrices for placing the overlay. Values are float64 so the same matrix
// can drive both the preview and the native-resolution export without drift.

import (
	"math"

	"fairhat/internal/domain"

	"golang.org/x/image/math/f64"
)

// Affine represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine struct{ A, B, C, D, E, F float64 }

var IdentityAffine = Affine{A: 1, D: 1}

// Mul returns m*n, i.e. n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine) Apply(p domain.Point) domain.Point {
	return domain.Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) {
		return IdentityAffine, false
	}
	ia := m.D / det
	ib := -m.B / det
	ic := -m.C / det
	id := m.A / det
	return Affine{
		A: ia, B: ib, C: ic, D: id,
		E: -(ia*m.E + ic*m.F),
		F: -(ib*m.E + id*m.F),
	}, true
}

// Aff3 converts to the row-major layout used by golang.org/x/image/draw.
func (m Affine) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}
}

func Translate(tx, ty float64) Affine { return Affine{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine     { return Affine{A: sx, D: sy} }

// Rotate returns a rotation by rad radians. With y pointing down this turns clockwise on screen.
func Rotate(rad float64) Affine {
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Affine{A: c, B: s, C: -s, D: c}
}

// MirrorX mirrors about the vertical axis through the origin.
func MirrorX() Affine { return Affine{A: -1, D: 1} }
