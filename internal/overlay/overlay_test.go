/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package overlay

import "testing"

func TestBuiltinRasterizesWithAspect(t *testing.T) {
	img, err := Builtin(400)
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 260 {
		t.Fatalf("bounds = %v, want 400x260", b)
	}
	// Brim center is painted, the top-left corner is transparent.
	if img.RGBAAt(200, 205).A == 0 {
		t.Fatalf("expected opaque pixel on the brim")
	}
	if img.RGBAAt(0, 0).A != 0 {
		t.Fatalf("expected transparent corner")
	}
	again, _ := Builtin(400)
	if again != img {
		t.Fatalf("expected cached image for the same width")
	}
}

func TestBuiltinDefaultWidth(t *testing.T) {
	img, err := Builtin(0)
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if img.Bounds().Dx() != DefaultRasterWidth {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	if _, err := Rasterize([]byte("<svg"), 10); err == nil {
		t.Fatalf("expected error for malformed svg")
	}
}

func TestVariants(t *testing.T) {
	if VariantFor(false) != RightFacing || VariantFor(true) != LeftFacing {
		t.Fatalf("VariantFor mismatch")
	}
	if RightFacing.Other() != LeftFacing || LeftFacing.Other() != RightFacing {
		t.Fatalf("Other mismatch")
	}
	if !LeftFacing.FlipX() || RightFacing.FlipX() {
		t.Fatalf("FlipX mismatch")
	}
}
