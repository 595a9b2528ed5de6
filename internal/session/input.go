/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"fairhat/internal/domain"
	"fairhat/internal/gesture"
)

// Pointer and touch positions are container-relative display points.

func (e *Editor) PointerDown(id int, p domain.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.PointerDown(id, p)
}

func (e *Editor) PointerMove(id int, p domain.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.PointerMove(id, p)
}

func (e *Editor) PointerUp(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.PointerUp(id)
}

func (e *Editor) PointerLeave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.PointerLeave()
}

func (e *Editor) PointerCancel(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.PointerCancel(id)
}

func (e *Editor) TouchStart(touches []gesture.TouchPoint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.TouchStart(touches)
}

func (e *Editor) TouchMove(touches []gesture.TouchPoint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.TouchMove(touches)
}

func (e *Editor) TouchEnd(id, remaining int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.TouchEnd(id, remaining)
}

func (e *Editor) TouchCancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.TouchCancel()
}

// DragState returns the drag controller state.
func (e *Editor) DragState() gesture.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.State()
}
