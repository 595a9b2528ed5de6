/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"fmt"
	"image"
	"log/slog"

	"fairhat/internal/domain"
	"fairhat/internal/imageio"
	"fairhat/internal/overlay"
	"fairhat/internal/status"
)

// LoadBaseImage replaces the photo. The file must be an image by its declared type
// or content; on any failure the previous photo, dimensions and pose are kept.
// A drag in progress is cancelled. The pose itself is kept.
func (e *Editor) LoadBaseImage(name string, data []byte) (domain.Dimensions, error) {
	const op = "load base image"
	dims, err := e.loadBase(name, data)
	if err != nil {
		e.fail(op, err)
		return domain.Dimensions{}, err
	}
	e.log.InfoContext(e.ctx, "base image loaded", slog.String("name", name), slog.String("dims", dims.String()))
	e.status.Show(status.Success, fmt.Sprintf("Loaded %s (%s)", displayName(name), dims))
	return dims, nil
}

func (e *Editor) loadBase(name string, data []byte) (dims domain.Dimensions, err error) {
	defer e.recoverInto("load base image", &err)
	if _, err := imageio.Sniff(name, data); err != nil {
		return dims, err
	}
	img, info, err := imageio.Decode(imageio.ResourceBase, data)
	if err != nil {
		return dims, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.base = img
	e.baseName = name
	e.dims = info.Dimensions
	e.drag.Cancel()
	return info.Dimensions, nil
}

// LoadOverlay replaces the built-in artwork with a user-supplied image.
func (e *Editor) LoadOverlay(name string, data []byte) error {
	const op = "load overlay"
	err := e.loadOverlay(name, data)
	if err != nil {
		e.fail(op, err)
		return err
	}
	e.log.InfoContext(e.ctx, "overlay loaded", slog.String("name", name))
	e.status.Show(status.Success, "Overlay replaced")
	return nil
}

func (e *Editor) loadOverlay(name string, data []byte) (err error) {
	defer e.recoverInto("load overlay", &err)
	if _, err := imageio.Sniff(name, data); err != nil {
		return err
	}
	img, _, err := imageio.Decode(imageio.ResourceOverlay, data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.art = img
	e.customArt = true
	return nil
}

// UseBuiltinOverlay restores the built-in artwork.
func (e *Editor) UseBuiltinOverlay() error {
	img, err := overlay.Builtin(e.opts.OverlayRasterWidth)
	if err != nil {
		e.fail("load overlay", err)
		return err
	}
	e.mu.Lock()
	e.art = img
	e.customArt = false
	e.mu.Unlock()
	return nil
}

// HasBaseImage reports whether a photo is loaded.
func (e *Editor) HasBaseImage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base != nil
}

// Dimensions returns the native size of the loaded photo.
func (e *Editor) Dimensions() (domain.Dimensions, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims, e.base != nil
}

// BaseName returns the file name the photo was loaded from.
func (e *Editor) BaseName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseName
}

// OverlayBounds returns the native size of the active artwork.
func (e *Editor) OverlayBounds() image.Rectangle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.art.Bounds()
}

// CustomOverlay reports whether a user-supplied overlay replaced the built-in one.
func (e *Editor) CustomOverlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.customArt
}

func displayName(name string) string {
	if name == "" {
		return "image"
	}
	return name
}
