/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package overlay provides the hat artwork and its two facing variants.
//
// The artwork is authored right-facing. The left-facing variant is the same
// artwork drawn with the transform's FlipX set, so the exporter never needs a
// second bitmap.
package overlay

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/hat.svg
var hatSVG []byte

// DefaultRasterWidth is the native pixel width the built-in artwork is rasterised at.
const DefaultRasterWidth = 512

// Variant names one of the two artwork orientations.
type Variant string

const (
	RightFacing Variant = "right-facing"
	LeftFacing  Variant = "left-facing"
)

// VariantFor returns the variant shown for the given mirror flag.
func VariantFor(flipX bool) Variant {
	if flipX {
		return LeftFacing
	}
	return RightFacing
}

// Other returns the opposite variant.
func (v Variant) Other() Variant {
	if v == LeftFacing {
		return RightFacing
	}
	return LeftFacing
}

// FlipX reports the mirror flag that yields v.
func (v Variant) FlipX() bool { return v == LeftFacing }

var (
	cacheMu sync.Mutex
	cache   = map[int]*image.RGBA{}
)

// Builtin returns the right-facing artwork rasterised at width pixels.
// Results are cached per width; callers must not modify the returned image.
func Builtin(width int) (*image.RGBA, error) {
	if width <= 0 {
		width = DefaultRasterWidth
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if img, ok := cache[width]; ok {
		return img, nil
	}
	img, err := Rasterize(hatSVG, width)
	if err != nil {
		return nil, err
	}
	cache[width] = img
	return img, nil
}

// Rasterize renders an SVG document at the given pixel width keeping its aspect ratio.
func Rasterize(svg []byte, width int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse svg: %w", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, fmt.Errorf("overlay: svg has no usable viewBox")
	}
	w := width
	h := int(math.Round(float64(w) * vh / vw))
	if h < 1 {
		h = 1
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
