/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport resolves the contain-fit rectangle of an image shown in a container
// and the factors mapping display-space distances to native image pixels.
package viewport

import (
	"fmt"

	"fairhat/internal/domain"
)

// Geometry is derived on demand and never cached: the container may resize between
// preview and export.
type Geometry struct {
	Container domain.Box
	Image     domain.Dimensions

	// DisplayedWidth/DisplayedHeight is the letterboxed image rectangle inside the container.
	DisplayedWidth  float64
	DisplayedHeight float64
	// OffsetX/OffsetY is the top-left corner of that rectangle in container coordinates.
	OffsetX float64
	OffsetY float64

	// ScaleX/ScaleY convert display pixels to native pixels.
	ScaleX float64
	ScaleY float64
}

// Resolve computes the centered contain fit of img inside container.
func Resolve(container domain.Box, img domain.Dimensions) (Geometry, error) {
	if !container.Valid() {
		return Geometry{}, fmt.Errorf("viewport: invalid container %s", container)
	}
	if !img.Valid() {
		return Geometry{}, fmt.Errorf("viewport: invalid image dimensions %s", img)
	}
	containerAspect := container.Width / container.Height
	imageAspect := img.Aspect()

	g := Geometry{Container: container, Image: img}
	if containerAspect > imageAspect {
		g.DisplayedHeight = container.Height
		g.DisplayedWidth = g.DisplayedHeight * imageAspect
	} else {
		g.DisplayedWidth = container.Width
		g.DisplayedHeight = g.DisplayedWidth / imageAspect
	}
	g.OffsetX = (container.Width - g.DisplayedWidth) / 2
	g.OffsetY = (container.Height - g.DisplayedHeight) / 2
	g.ScaleX = float64(img.Width) / g.DisplayedWidth
	g.ScaleY = float64(img.Height) / g.DisplayedHeight
	return g, nil
}

// ToImage maps a container-relative display point to native image pixels.
func (g Geometry) ToImage(p domain.Point) domain.Point {
	return domain.Point{X: (p.X - g.OffsetX) * g.ScaleX, Y: (p.Y - g.OffsetY) * g.ScaleY}
}

// ToDisplay maps native image pixels to a container-relative display point.
func (g Geometry) ToDisplay(p domain.Point) domain.Point {
	return domain.Point{X: p.X/g.ScaleX + g.OffsetX, Y: p.Y/g.ScaleY + g.OffsetY}
}

// ContainerCenter is the overlay's resting center in display space.
func (g Geometry) ContainerCenter() domain.Point {
	return domain.Point{X: g.Container.Width / 2, Y: g.Container.Height / 2}
}

// Contains reports whether a container-relative point lies on the displayed image.
func (g Geometry) Contains(p domain.Point) bool {
	return p.X >= g.OffsetX && p.Y >= g.OffsetY &&
		p.X <= g.OffsetX+g.DisplayedWidth && p.Y <= g.OffsetY+g.DisplayedHeight
}
