/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session is the editor behind both the desktop shell and the CLI. It owns
// the loaded photo, the overlay artwork, the pose and the drag controller, and turns
// every failure into a typed error plus a status message without touching the pose.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"fairhat/internal/compositor"
	"fairhat/internal/domain"
	"fairhat/internal/export"
	"fairhat/internal/gesture"
	applog "fairhat/internal/log"
	"fairhat/internal/overlay"
	"fairhat/internal/status"
	"fairhat/internal/transform"

	"github.com/google/uuid"
)

// DefaultContainer is the preview box used until the shell reports its real size.
var DefaultContainer = domain.Box{Width: 800, Height: 600}

// Options configure an Editor. Zero values select defaults.
type Options struct {
	Steps              transform.Steps
	Render             compositor.Options
	Export             export.Options
	OverlayRasterWidth int
	Container          domain.Box
	DismissAfter       time.Duration
	Scheduler          status.Scheduler
	Logger             *slog.Logger
}

// Editor is safe for concurrent use. Status subscribers are called without the
// editor lock held.
type Editor struct {
	mu   sync.Mutex
	id   string
	ctx  context.Context
	log  *slog.Logger
	opts Options

	base      *image.RGBA
	baseName  string
	dims      domain.Dimensions
	art       *image.RGBA
	customArt bool
	t         transform.Transform
	container domain.Box

	drag   *gesture.Controller
	status *status.Notifier
}

// New returns an editor with the built-in overlay and the identity pose.
func New(opts Options) (*Editor, error) {
	opts.Steps = opts.Steps.Normalize()
	if !opts.Container.Valid() {
		opts.Container = DefaultContainer
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("session")
	}
	id := uuid.NewString()
	art, err := overlay.Builtin(opts.OverlayRasterWidth)
	if err != nil {
		return nil, fmt.Errorf("load overlay artwork: %w", err)
	}
	e := &Editor{
		id:        id,
		ctx:       applog.ContextWithSession(context.Background(), id),
		log:       l,
		opts:      opts,
		art:       art,
		t:         transform.Identity(),
		container: opts.Container,
		status:    status.New(opts.DismissAfter, opts.Scheduler),
	}
	e.drag = gesture.New(poseTarget{e}, e.hitLocked, l)
	e.log.DebugContext(e.ctx, "session started", slog.Int("overlay_width", art.Bounds().Dx()))
	return e, nil
}

// ID returns the session id attached to every log record.
func (e *Editor) ID() string { return e.id }

// Context carries the session id for logging.
func (e *Editor) Context() context.Context { return e.ctx }

// Status returns the notifier the shell renders.
func (e *Editor) Status() *status.Notifier { return e.status }

// Close stops the status timer.
func (e *Editor) Close() { e.status.Close() }

// poseTarget lets the drag controller read and write the position. The controller
// is only driven with e.mu held.
type poseTarget struct{ e *Editor }

func (p poseTarget) Position() domain.Point     { return p.e.t.Position }
func (p poseTarget) SetPosition(q domain.Point) { p.e.t = p.e.t.SetPosition(q) }

func (e *Editor) hitLocked(p domain.Point) bool {
	size := compositor.OverlaySize(e.art.Bounds(), e.overlayWidth())
	return e.t.Hits(compositor.OverlayCenter(e.t, e.container), size.Width, size.Height, p)
}

func (e *Editor) overlayWidth() float64 {
	if e.opts.Render.OverlayWidth > 0 {
		return e.opts.Render.OverlayWidth
	}
	return compositor.DefaultOverlayWidth
}

// recoverInto converts a panic in op into an error. Deferred directly by entry points.
func (e *Editor) recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		e.log.ErrorContext(e.ctx, "panic recovered", slog.String("op", op), slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())))
		*err = fmt.Errorf("%s: internal error: %v", op, r)
	}
}

// fail logs err and shows a user-facing message for it.
func (e *Editor) fail(op string, err error) {
	applog.WithOperation(e.log, op).WarnContext(e.ctx, "operation failed", slog.Any("err", err))
	e.status.Show(status.Error, userMessage(err))
}

func userMessage(err error) string {
	var pe *domain.PreconditionError
	var de *domain.DecodeError
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "That file is not an image."
	case errors.As(err, &pe):
		if pe.Reason == noBaseImage {
			return "Load a photo first."
		}
		return "Export failed: " + pe.Reason + "."
	case errors.As(err, &de):
		return "Could not read the " + de.Resource + " image."
	default:
		return "Something went wrong: " + err.Error()
	}
}

const noBaseImage = "no base image loaded"
