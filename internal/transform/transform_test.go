/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transform

import (
	"math"
	"math/rand"
	"testing"

	"fairhat/internal/domain"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRotateAccumulatesUnbounded(t *testing.T) {
	tr := Identity()
	for i := 0; i < 30; i++ {
		tr = tr.Rotate(Right)
	}
	if tr.Rotation != 450 {
		t.Fatalf("rotation = %v, want 450", tr.Rotation)
	}
	if got := tr.NormalizedRotation(); got != 90 {
		t.Fatalf("normalized = %v, want 90", got)
	}
	tr = Identity().Rotate(Left)
	if tr.Rotation != -15 || tr.NormalizedRotation() != 345 {
		t.Fatalf("left rotate: %v / %v", tr.Rotation, tr.NormalizedRotation())
	}
}

func TestScaleByStepsAndClamp(t *testing.T) {
	tr := Identity().ScaleBy(Up)
	if !near(tr.Scale, 1.1) {
		t.Fatalf("scale up = %v", tr.Scale)
	}
	tr = Identity().ScaleBy(Down)
	if !near(tr.Scale, 0.9) {
		t.Fatalf("scale down = %v", tr.Scale)
	}
	tr = Identity()
	for i := 0; i < 200; i++ {
		tr = tr.ScaleBy(Up)
	}
	if tr.Scale != MaxScale {
		t.Fatalf("expected clamp at %v, got %v", MaxScale, tr.Scale)
	}
	for i := 0; i < 200; i++ {
		tr = tr.ScaleBy(Down)
	}
	if tr.Scale != MinScale {
		t.Fatalf("expected clamp at %v, got %v", MinScale, tr.Scale)
	}
}

func TestScaleStaysInBoundsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := Identity()
	for i := 0; i < 5000; i++ {
		switch rng.Intn(4) {
		case 0:
			tr = tr.Rotate(Left)
		case 1:
			tr = tr.Rotate(Right)
		case 2:
			tr = tr.ScaleBy(Up)
		default:
			tr = tr.ScaleBy(Down)
		}
		if tr.Scale < MinScale || tr.Scale > MaxScale {
			t.Fatalf("step %d: scale %v out of bounds", i, tr.Scale)
		}
	}
}

func TestResetAlwaysIdentity(t *testing.T) {
	tr := Transform{Position: domain.Point{X: -40, Y: 900}, Rotation: 735, Scale: 6.2, FlipX: true}
	got := tr.Reset()
	want := Transform{Position: domain.Point{}, Rotation: 0, Scale: 1, FlipX: false}
	if got != want || !got.IsIdentity() {
		t.Fatalf("reset = %+v, want %+v", got, want)
	}
}

func TestFieldsIndependent(t *testing.T) {
	tr := Identity().SetPosition(domain.Point{X: 5, Y: -3}).ToggleMirror()
	if tr.Rotation != 0 || tr.Scale != 1 || !tr.FlipX || tr.Position != (domain.Point{X: 5, Y: -3}) {
		t.Fatalf("unexpected coupling: %+v", tr)
	}
	if tr.ToggleMirror().FlipX {
		t.Fatalf("toggle twice should clear FlipX")
	}
}

func TestStepsNormalizeAndCustom(t *testing.T) {
	s := Steps{RotateDegrees: 90, UpFactor: 2, DownFactor: 0.5}
	tr := s.Rotate(Identity(), Right)
	tr = s.ScaleBy(tr, Up)
	if tr.Rotation != 90 || tr.Scale != 2 {
		t.Fatalf("custom steps: %+v", tr)
	}
	bad := Steps{RotateDegrees: -1, UpFactor: 0.5, DownFactor: 3}.Normalize()
	if bad != DefaultSteps() {
		t.Fatalf("normalize = %+v", bad)
	}
	if ClampScale(math.NaN()) != 1 {
		t.Fatalf("NaN scale should map to 1")
	}
}

func TestMatrixCompositionOrder(t *testing.T) {
	// Local point (10,0): scale 2 -> (20,0); flip -> (-20,0); rotate 90 cw -> (0,-20); translate.
	tr := Transform{Rotation: 90, Scale: 2, FlipX: true}
	p := tr.Matrix(domain.Point{X: 100, Y: 50}).Apply(domain.Point{X: 10, Y: 0})
	if !near(p.X, 100) || !near(p.Y, 30) {
		t.Fatalf("unexpected placement: %+v", p)
	}
	// Without flip the same point goes to (100, 70).
	tr.FlipX = false
	p = tr.Matrix(domain.Point{X: 100, Y: 50}).Apply(domain.Point{X: 10, Y: 0})
	if !near(p.X, 100) || !near(p.Y, 70) {
		t.Fatalf("unexpected placement without flip: %+v", p)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translate(10, 5).Mul(Rotate(0.3)).Mul(Scale(2, 3))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	p := domain.Point{X: 7, Y: -2}
	q := inv.Apply(m.Apply(p))
	if !near(p.X, q.X) || !near(p.Y, q.Y) {
		t.Fatalf("round trip mismatch: %+v vs %+v", p, q)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix must not invert")
	}
	a := Translate(3, 4).Aff3()
	if a[2] != 3 || a[5] != 4 || a[0] != 1 || a[4] != 1 {
		t.Fatalf("Aff3 layout: %v", a)
	}
}

func TestHits(t *testing.T) {
	tr := Identity()
	c := domain.Point{X: 400, Y: 300}
	if !tr.Hits(c, 100, 60, domain.Point{X: 440, Y: 320}) {
		t.Fatalf("point inside overlay should hit")
	}
	if tr.Hits(c, 100, 60, domain.Point{X: 460, Y: 300}) {
		t.Fatalf("point outside overlay should miss")
	}
	tr = tr.WithScale(2)
	if !tr.Hits(c, 100, 60, domain.Point{X: 490, Y: 300}) {
		t.Fatalf("scaled overlay should extend hit area")
	}
}
