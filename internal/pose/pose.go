/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pose reads and writes overlay poses as JSON documents, so a placement made
// in the preview can be replayed headless.
package pose

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"fairhat/internal/domain"
	"fairhat/internal/transform"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed pose.schema.json
var schemaJSON []byte

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Document is a parsed pose. Container is nil when the document does not name the
// preview box the pose was made in.
type Document struct {
	Transform transform.Transform
	Container *domain.Box
}

// ValidationError lists schema violations.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid pose: " + strings.Join(e.Problems, "; ")
}

type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wire struct {
	Position  *wirePoint `json:"position,omitempty"`
	Rotation  *float64   `json:"rotation,omitempty"`
	Scale     *float64   `json:"scale,omitempty"`
	FlipX     *bool      `json:"flipX,omitempty"`
	Container *wireBox   `json:"container,omitempty"`
}

// Parse validates data against the pose schema and returns the pose. Missing fields
// keep their identity values.
func Parse(data []byte) (Document, error) {
	s, err := compiled()
	if err != nil {
		return Document{}, fmt.Errorf("pose schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Document{}, fmt.Errorf("pose: %w", err)
	}
	if !result.Valid() {
		ve := &ValidationError{}
		for _, e := range result.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return Document{}, ve
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Document{}, fmt.Errorf("pose: %w", err)
	}

	doc := Document{Transform: transform.Identity()}
	if w.Position != nil {
		doc.Transform = doc.Transform.SetPosition(domain.Point{X: w.Position.X, Y: w.Position.Y})
	}
	if w.Rotation != nil {
		doc.Transform.Rotation = *w.Rotation
	}
	if w.Scale != nil {
		doc.Transform = doc.Transform.WithScale(*w.Scale)
	}
	if w.FlipX != nil {
		doc.Transform.FlipX = *w.FlipX
	}
	if w.Container != nil {
		doc.Container = &domain.Box{Width: w.Container.Width, Height: w.Container.Height}
	}
	return doc, nil
}

// Encode writes t (and the container, when non-nil) as an indented pose document.
func Encode(t transform.Transform, container *domain.Box) ([]byte, error) {
	rot, scale, flip := t.Rotation, transform.ClampScale(t.Scale), t.FlipX
	w := wire{
		Position: &wirePoint{X: t.Position.X, Y: t.Position.Y},
		Rotation: &rot,
		Scale:    &scale,
		FlipX:    &flip,
	}
	if container != nil {
		w.Container = &wireBox{Width: container.Width, Height: container.Height}
	}
	return json.MarshalIndent(w, "", "  ")
}
