/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"image"
	"log/slog"

	"fairhat/internal/compositor"
	"fairhat/internal/domain"
	"fairhat/internal/export"
	"fairhat/internal/status"
	"fairhat/internal/transform"
)

// snapshot is the immutable state a render needs. Images are replaced on load,
// never mutated, so they can be read without the lock.
type snapshot struct {
	base      *image.RGBA
	art       *image.RGBA
	dims      domain.Dimensions
	t         transform.Transform
	container domain.Box
}

func (e *Editor) snapshot() snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot{base: e.base, art: e.art, dims: e.dims, t: e.t, container: e.container}
}

// Preview renders the current container view.
func (e *Editor) Preview() (img *image.RGBA, err error) {
	defer e.recoverInto("preview", &err)
	s := e.snapshot()
	var base image.Image
	if s.base != nil {
		base = s.base
	}
	return compositor.Preview(base, s.art, s.t, s.container, e.opts.Render)
}

// ExportImage composites at native resolution. A zero container uses the current one.
func (e *Editor) ExportImage(container domain.Box) (*image.RGBA, error) {
	img, err := e.exportImage(container)
	if err != nil {
		e.fail("export", err)
		return nil, err
	}
	return img, nil
}

func (e *Editor) exportImage(container domain.Box) (img *image.RGBA, err error) {
	defer e.recoverInto("export", &err)
	s := e.snapshot()
	if container == (domain.Box{}) {
		container = s.container
	}
	if s.base == nil {
		return nil, &domain.PreconditionError{Op: "export", Reason: noBaseImage}
	}
	return compositor.Export(s.base, s.art, s.t, s.dims, container, e.opts.Render)
}

// SetExportFormat selects the encoding used by ExportComposite.
func (e *Editor) SetExportFormat(f export.Format) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Export.Format = f
}

// ExportOptions returns the current encoding options.
func (e *Editor) ExportOptions() export.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts.Export
}

// ExportComposite renders and encodes the composite. The pose is never changed.
func (e *Editor) ExportComposite(container domain.Box) (export.Artifact, error) {
	const op = "export"
	a, err := e.exportComposite(container)
	if err != nil {
		e.fail(op, err)
		return export.Artifact{}, err
	}
	e.log.InfoContext(e.ctx, "composite exported", slog.String("name", a.Name), slog.Int("bytes", len(a.Bytes)))
	e.status.Show(status.Success, "Exported "+a.Name)
	return a, nil
}

func (e *Editor) exportComposite(container domain.Box) (a export.Artifact, err error) {
	defer e.recoverInto("export", &err)
	img, err := e.exportImage(container)
	if err != nil {
		return a, err
	}
	return export.Encode(img, e.ExportOptions())
}
