/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compositor renders the overlay on top of the base image, both for the
// interactive preview and for the full resolution export.
//
// Preview and export share one placement routine. The only difference is the unit
// the overlay is measured in: display pixels for the preview, native pixels for the
// export, converted with the viewport scale factors.
package compositor

import (
	"image"
	"image/color"
	"math"

	"fairhat/internal/domain"
	"fairhat/internal/imageio"
	"fairhat/internal/transform"
	"fairhat/internal/viewport"

	"golang.org/x/image/draw"
)

// DefaultOverlayWidth is the overlay's rendered width in display pixels at scale 1.
const DefaultOverlayWidth = 100.0

// Options tune rendering. Zero values select defaults.
type Options struct {
	// OverlayWidth is the overlay width in display pixels at scale 1.
	OverlayWidth float64
	// Background fills the preview outside the letterboxed image.
	Background color.RGBA
}

// DefaultBackground is the preview letterbox color.
var DefaultBackground = color.RGBA{R: 40, G: 40, B: 40, A: 255}

func (o Options) normalize() Options {
	if o.OverlayWidth <= 0 || math.IsNaN(o.OverlayWidth) || math.IsInf(o.OverlayWidth, 0) {
		o.OverlayWidth = DefaultOverlayWidth
	}
	if o.Background == (color.RGBA{}) {
		o.Background = DefaultBackground
	}
	return o
}

// OverlaySize returns the untransformed overlay rectangle for a given rendered width,
// keeping the overlay's native aspect ratio.
func OverlaySize(overlay image.Rectangle, width float64) domain.Box {
	ow, oh := overlay.Dx(), overlay.Dy()
	if ow <= 0 || oh <= 0 {
		return domain.Box{}
	}
	return domain.Box{Width: width, Height: width * float64(oh) / float64(ow)}
}

// Export composites overlay onto base at the native resolution dims so that the
// overlay sits where it appeared in a preview of the given container.
func Export(base, overlay image.Image, t transform.Transform, dims domain.Dimensions, container domain.Box, opt Options) (*image.RGBA, error) {
	const op = "export"
	opt = opt.normalize()
	if base == nil {
		return nil, &domain.PreconditionError{Op: op, Reason: "no base image loaded"}
	}
	if base.Bounds().Empty() {
		return nil, &domain.DecodeError{Op: op, Resource: imageio.ResourceBase}
	}
	if overlay == nil || overlay.Bounds().Empty() {
		return nil, &domain.DecodeError{Op: op, Resource: imageio.ResourceOverlay}
	}
	if !dims.Valid() || int64(dims.Width)*int64(dims.Height) > imageio.MaxPixels {
		return nil, &domain.PreconditionError{Op: op, Reason: "cannot create output surface " + dims.String()}
	}
	g, err := viewport.Resolve(container, dims)
	if err != nil {
		return nil, &domain.PreconditionError{Op: op, Reason: "invalid preview geometry", Err: err}
	}

	out := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))
	bb := base.Bounds()
	if bb.Dx() == dims.Width && bb.Dy() == dims.Height {
		draw.Draw(out, out.Bounds(), base, bb.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(out, out.Bounds(), base, bb, draw.Src, nil)
	}

	center := domain.Point{
		X: float64(dims.Width)/2 + t.Position.X*g.ScaleX,
		Y: float64(dims.Height)/2 + t.Position.Y*g.ScaleY,
	}
	drawOverlay(out, overlay, t.Matrix(center), opt.OverlayWidth*g.ScaleX)
	return out, nil
}

// Preview renders the container-sized interactive view: the letterboxed base image
// (if any) and the overlay at its display size.
func Preview(base, overlay image.Image, t transform.Transform, container domain.Box, opt Options) (*image.RGBA, error) {
	const op = "preview"
	opt = opt.normalize()
	if !container.Valid() {
		return nil, &domain.PreconditionError{Op: op, Reason: "invalid container " + container.String()}
	}
	w := int(math.Ceil(container.Width))
	h := int(math.Ceil(container.Height))
	if int64(w)*int64(h) > imageio.MaxPixels {
		return nil, &domain.PreconditionError{Op: op, Reason: "cannot create preview surface"}
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)

	if base != nil && !base.Bounds().Empty() {
		bb := base.Bounds()
		g, err := viewport.Resolve(container, domain.Dimensions{Width: bb.Dx(), Height: bb.Dy()})
		if err != nil {
			return nil, &domain.PreconditionError{Op: op, Reason: "invalid preview geometry", Err: err}
		}
		dr := image.Rect(
			int(math.Round(g.OffsetX)), int(math.Round(g.OffsetY)),
			int(math.Round(g.OffsetX+g.DisplayedWidth)), int(math.Round(g.OffsetY+g.DisplayedHeight)),
		)
		draw.BiLinear.Scale(out, dr, base, bb, draw.Src, nil)
	}
	if overlay == nil || overlay.Bounds().Empty() {
		return out, nil
	}
	drawOverlay(out, overlay, t.Matrix(OverlayCenter(t, container)), opt.OverlayWidth)
	return out, nil
}

// OverlayCenter is the overlay center in container coordinates for the preview.
func OverlayCenter(t transform.Transform, container domain.Box) domain.Point {
	return domain.Point{X: container.Width / 2, Y: container.Height / 2}.Add(t.Position)
}

// drawOverlay maps the overlay's source rectangle onto a width x (width*aspect)
// rectangle centered on the local origin, then places it with place.
func drawOverlay(dst draw.Image, overlay image.Image, place transform.Affine, width float64) {
	ob := overlay.Bounds()
	size := OverlaySize(ob, width)
	if !size.Valid() {
		return
	}
	local := transform.Translate(-size.Width/2, -size.Height/2).
		Mul(transform.Scale(size.Width/float64(ob.Dx()), size.Height/float64(ob.Dy()))).
		Mul(transform.Translate(-float64(ob.Min.X), -float64(ob.Min.Y)))
	s2d := place.Mul(local)
	if _, ok := s2d.Invert(); !ok {
		return
	}
	draw.BiLinear.Transform(dst, s2d.Aff3(), overlay, ob, draw.Over, nil)
}
