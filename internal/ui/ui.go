/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop editor. The real window needs the fyne build tag
// and cgo; other builds get a Run that reports ErrUnavailable.
package ui

import "errors"

// ErrUnavailable is returned by Run in binaries built without the desktop editor.
var ErrUnavailable = errors.New("desktop editor not available in this build")
