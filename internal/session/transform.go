/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"log/slog"

	"fairhat/internal/domain"
	"fairhat/internal/overlay"
	"fairhat/internal/transform"
)

// Transform returns the current pose.
func (e *Editor) Transform() transform.Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t
}

// Rotate turns the overlay one step left or right.
func (e *Editor) Rotate(dir transform.RotateDirection) transform.Transform {
	return e.update("rotate", func(t transform.Transform) transform.Transform {
		return e.opts.Steps.Rotate(t, dir)
	})
}

// ScaleBy grows or shrinks the overlay one step, clamped.
func (e *Editor) ScaleBy(dir transform.ScaleDirection) transform.Transform {
	return e.update("scale", func(t transform.Transform) transform.Transform {
		return e.opts.Steps.ScaleBy(t, dir)
	})
}

// ToggleMirror swaps the facing of the overlay.
func (e *Editor) ToggleMirror() transform.Transform {
	return e.update("mirror", transform.Transform.ToggleMirror)
}

// Reset restores the identity pose.
func (e *Editor) Reset() transform.Transform {
	return e.update("reset", transform.Transform.Reset)
}

// SetPosition moves the overlay center to p, relative to the container center.
func (e *Editor) SetPosition(p domain.Point) transform.Transform {
	return e.update("position", func(t transform.Transform) transform.Transform { return t.SetPosition(p) })
}

// ApplyPose replaces the whole pose, e.g. from a saved pose document. Scale is clamped.
func (e *Editor) ApplyPose(p transform.Transform) transform.Transform {
	return e.update("apply pose", func(transform.Transform) transform.Transform { return p.WithScale(p.Scale) })
}

// CurrentOverlayAsset returns the artwork variant matching the mirror flag.
func (e *Editor) CurrentOverlayAsset() overlay.Variant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return overlay.VariantFor(e.t.FlipX)
}

func (e *Editor) update(op string, fn func(transform.Transform) transform.Transform) transform.Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.t = fn(e.t)
	e.log.DebugContext(e.ctx, "pose changed", slog.String("op", op),
		slog.Float64("x", e.t.Position.X), slog.Float64("y", e.t.Position.Y),
		slog.Float64("rotation", e.t.Rotation), slog.Float64("scale", e.t.Scale), slog.Bool("flipX", e.t.FlipX))
	return e.t
}

// SetContainer records the preview box the shell currently renders into. Invalid
// boxes are ignored.
func (e *Editor) SetContainer(b domain.Box) {
	if !b.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.container = b
}

// Container returns the current preview box.
func (e *Editor) Container() domain.Box {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container
}
