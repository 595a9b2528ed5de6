/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns pointer and single-touch event streams into overlay drags.
//
// The controller has two states, idle and dragging. A drag session anchors the
// pointer to the overlay position at press time; each move sets
// position = pointer - anchor. Every release path (up, leave, cancel, touch end,
// touch cancel) returns to idle so a lost release cannot leave the overlay
// following the pointer.
package gesture

import (
	"log/slog"

	"fairhat/internal/domain"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Source distinguishes mouse/pen pointers from touch points.
type Source int

const (
	Pointer Source = iota
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "pointer"
}

// TouchPoint is one active touch as reported by the platform.
type TouchPoint struct {
	ID  int
	Pos domain.Point
}

// Target is the pose holder the controller drags.
type Target interface {
	Position() domain.Point
	SetPosition(domain.Point)
}

// HitTester reports whether a press at p lands on the overlay. Nil accepts every press.
type HitTester func(p domain.Point) bool

// session is the transient drag bookkeeping; at most one exists.
type session struct {
	source Source
	id     int
	anchor domain.Point
}

// Controller is the drag state machine. It is not safe for concurrent use; callers
// confine it to the UI goroutine or guard it (session.Editor does the latter).
type Controller struct {
	target Target
	hit    HitTester
	active *session
	log    *slog.Logger

	// OnStateChange, when set, is called after every idle<->dragging transition.
	OnStateChange func(State)
}

// New returns an idle controller driving target.
func New(target Target, hit HitTester, l *slog.Logger) *Controller {
	if l == nil {
		l = slog.Default()
	}
	return &Controller{target: target, hit: hit, log: l}
}

// SetHitTester replaces the hit test used on press.
func (c *Controller) SetHitTester(h HitTester) { c.hit = h }

// State returns the current state.
func (c *Controller) State() State {
	if c.active != nil {
		return Dragging
	}
	return Idle
}

// Active reports whether a drag session exists.
func (c *Controller) Active() bool { return c.active != nil }

// Anchor returns the active session's anchor.
func (c *Controller) Anchor() (domain.Point, bool) {
	if c.active == nil {
		return domain.Point{}, false
	}
	return c.active.anchor, true
}

// PointerDown starts a drag when idle and the press hits the overlay.
func (c *Controller) PointerDown(id int, pos domain.Point) bool {
	return c.begin(Pointer, id, pos)
}

// PointerMove drags while the originating pointer is down.
func (c *Controller) PointerMove(id int, pos domain.Point) bool {
	return c.move(Pointer, id, pos)
}

// PointerUp ends the drag started by pointer id.
func (c *Controller) PointerUp(id int) bool {
	if c.active == nil || c.active.source != Pointer || c.active.id != id {
		return false
	}
	return c.end("pointer-up")
}

// PointerLeave ends any drag when the pointer leaves the container.
func (c *Controller) PointerLeave() bool {
	if c.active == nil {
		return false
	}
	return c.end("pointer-leave")
}

// PointerCancel ends the drag when the platform cancels pointer id.
func (c *Controller) PointerCancel(id int) bool {
	if c.active == nil || c.active.source != Pointer || c.active.id != id {
		return false
	}
	return c.end("pointer-cancel")
}

// TouchStart begins a drag only when exactly one touch point is present.
// Further fingers during a drag are ignored.
func (c *Controller) TouchStart(touches []TouchPoint) bool {
	if len(touches) != 1 {
		return false
	}
	return c.begin(Touch, touches[0].ID, touches[0].Pos)
}

// TouchMove drags only while exactly one touch point is present and it is the
// one that started the session.
func (c *Controller) TouchMove(touches []TouchPoint) bool {
	if len(touches) != 1 {
		return false
	}
	return c.move(Touch, touches[0].ID, touches[0].Pos)
}

// TouchEnd handles a lifted finger. The drag ends when the originating touch lifts
// or when no touch points remain.
func (c *Controller) TouchEnd(id int, remaining int) bool {
	if c.active == nil || c.active.source != Touch {
		return false
	}
	if c.active.id != id && remaining > 0 {
		return false
	}
	return c.end("touch-end")
}

// TouchCancel ends any touch drag.
func (c *Controller) TouchCancel() bool {
	if c.active == nil || c.active.source != Touch {
		return false
	}
	return c.end("touch-cancel")
}

// Cancel forces the controller idle, e.g. when the base image is replaced.
func (c *Controller) Cancel() bool {
	if c.active == nil {
		return false
	}
	return c.end("cancel")
}

func (c *Controller) begin(src Source, id int, pos domain.Point) bool {
	if c.active != nil {
		return false
	}
	if c.hit != nil && !c.hit(pos) {
		return false
	}
	c.active = &session{source: src, id: id, anchor: pos.Sub(c.target.Position())}
	c.log.Debug("drag start", slog.String("source", src.String()), slog.Int("id", id),
		slog.Float64("x", pos.X), slog.Float64("y", pos.Y))
	c.notify()
	return true
}

func (c *Controller) move(src Source, id int, pos domain.Point) bool {
	if c.active == nil || c.active.source != src || c.active.id != id {
		return false
	}
	c.target.SetPosition(pos.Sub(c.active.anchor))
	return true
}

func (c *Controller) end(reason string) bool {
	c.active = nil
	c.log.Debug("drag end", slog.String("reason", reason))
	c.notify()
	return true
}

func (c *Controller) notify() {
	if c.OnStateChange != nil {
		c.OnStateChange(c.State())
	}
}
