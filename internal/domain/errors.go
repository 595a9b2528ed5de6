/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The concrete error types below unwrap to them.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrPrecondition      = errors.New("precondition failed")
	ErrDecode            = errors.New("decode failed")
)

// UnsupportedFormatError reports a file whose content is not an image.
type UnsupportedFormatError struct {
	Op          string
	ContentType string
}

func (e *UnsupportedFormatError) Error() string {
	if e.ContentType == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrUnsupportedFormat)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrUnsupportedFormat, e.ContentType)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// PreconditionError reports an operation invoked in a state that cannot serve it,
// e.g. export with no base image loaded.
type PreconditionError struct {
	Op     string
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("%s: %v: %s", e.Op, ErrPrecondition, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PreconditionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPrecondition}
	}
	return []error{ErrPrecondition, e.Err}
}

// DecodeError reports an image resource that could not be decoded into pixel data.
type DecodeError struct {
	Op       string
	Resource string // "base" or "overlay"
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v: %s image", e.Op, ErrDecode, e.Resource)
	}
	return fmt.Sprintf("%s: %v: %s image: %v", e.Op, ErrDecode, e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}
