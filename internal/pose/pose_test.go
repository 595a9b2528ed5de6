/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pose

import (
	"errors"
	"testing"

	"fairhat/internal/domain"
	"fairhat/internal/transform"
)

func TestParseFullDocument(t *testing.T) {
	doc, err := Parse([]byte(`{
		"position": {"x": 12.5, "y": -40},
		"rotation": -375,
		"scale": 2.2,
		"flipX": true,
		"container": {"width": 800, "height": 600}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := transform.Transform{Position: domain.Point{X: 12.5, Y: -40}, Rotation: -375, Scale: 2.2, FlipX: true}
	if doc.Transform != want {
		t.Fatalf("Transform = %+v, want %+v", doc.Transform, want)
	}
	if doc.Container == nil || *doc.Container != (domain.Box{Width: 800, Height: 600}) {
		t.Fatalf("Container = %v", doc.Container)
	}
}

func TestParseEmptyIsIdentity(t *testing.T) {
	doc, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.Transform.IsIdentity() || doc.Container != nil {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"scale too large": `{"scale": 7.5}`,
		"scale too small": `{"scale": 0.05}`,
		"zero container":  `{"container": {"width": 0, "height": 10}}`,
		"unknown field":   `{"opacity": 1}`,
		"wrong type":      `{"flipX": "yes"}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			var ve *ValidationError
			if !errors.As(err, &ve) || len(ve.Problems) == 0 {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestParseMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"scale":`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEncodeParses(t *testing.T) {
	tr := transform.Identity().Rotate(transform.Right).ScaleBy(transform.Up).ToggleMirror().SetPosition(domain.Point{X: 3, Y: 4})
	box := domain.Box{Width: 640, Height: 480}
	data, err := Encode(tr, &box)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode): %v", err)
	}
	if doc.Transform != tr || *doc.Container != box {
		t.Fatalf("doc = %+v", doc)
	}
}
