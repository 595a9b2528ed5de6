/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package status holds the single transient message shown to the user and the one
// timer that dismisses it.
package status

import (
	"sync"
	"time"
)

// Kind classifies a message.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

// DefaultDismissAfter is used when New is given a non-positive delay.
const DefaultDismissAfter = 3 * time.Second

// Message is a visible status line.
type Message struct {
	Kind Kind
	Text string
	Seq  uint64
}

// Event is delivered to subscribers. Dismissed events carry the message that went away.
type Event struct {
	Message   Message
	Dismissed bool
}

// Timer is the part of *time.Timer the notifier needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Notifier owns at most one visible message and at most one pending dismiss timer.
type Notifier struct {
	mu       sync.Mutex
	after    time.Duration
	schedule Scheduler
	current  *Message
	timer    Timer
	seq      uint64
	subs     map[int]func(Event)
	nextSub  int
	closed   bool
}

// New returns a notifier that dismisses messages after the given delay.
// A nil scheduler uses time.AfterFunc.
func New(after time.Duration, schedule Scheduler) *Notifier {
	if after <= 0 {
		after = DefaultDismissAfter
	}
	if schedule == nil {
		schedule = realScheduler
	}
	return &Notifier{after: after, schedule: schedule, subs: map[int]func(Event){}}
}

// Show replaces the visible message and restarts the dismiss timer.
func (n *Notifier) Show(kind Kind, text string) Message {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return Message{}
	}
	n.stopLocked()
	n.seq++
	msg := Message{Kind: kind, Text: text, Seq: n.seq}
	n.current = &msg
	seq := n.seq
	n.timer = n.schedule(n.after, func() { n.expire(seq) })
	subs := n.subscribersLocked()
	n.mu.Unlock()

	notify(subs, Event{Message: msg})
	return msg
}

// Dismiss hides the visible message now, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.stopLocked()
	msg := n.current
	n.current = nil
	subs := n.subscribersLocked()
	n.mu.Unlock()

	if msg != nil {
		notify(subs, Event{Message: *msg, Dismissed: true})
	}
}

// Current returns the visible message.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Message{}, false
	}
	return *n.current, true
}

// Pending reports whether a dismiss timer is armed.
func (n *Notifier) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer != nil
}

// Subscribe registers fn for show and dismiss events. The returned func unregisters it.
// Callbacks run on the goroutine that caused the event, without the notifier lock held.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Close stops the pending timer and drops the message. Later Show calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
	n.current = nil
	n.closed = true
}

// expire runs on the timer. A stale timer (its message already replaced) does nothing.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.Seq != seq {
		n.mu.Unlock()
		return
	}
	msg := *n.current
	n.current = nil
	n.timer = nil
	subs := n.subscribersLocked()
	n.mu.Unlock()

	notify(subs, Event{Message: msg, Dismissed: true})
}

func (n *Notifier) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) subscribersLocked() []func(Event) {
	out := make([]func(Event), 0, len(n.subs))
	for i := 0; i < n.nextSub; i++ {
		if fn, ok := n.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
