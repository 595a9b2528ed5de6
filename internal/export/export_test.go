/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 90, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":      FormatPNG,
		"PNG":   FormatPNG,
		".webp": FormatWebP,
		"jpg":   FormatJPEG,
		"jpeg":  FormatJPEG,
		" pdf ": FormatPDF,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("", FormatPNG); got != "fair-hat.png" {
		t.Fatalf("FileName default = %q", got)
	}
	if got := FileName("party", FormatJPEG); got != "party.jpg" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestEncodeDefaultIsPNG(t *testing.T) {
	img := sample()
	a, err := Encode(img, Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a.Name != "fair-hat.png" || a.MIME != "image/png" {
		t.Fatalf("artifact = %q %q", a.Name, a.MIME)
	}
	got, err := png.Decode(bytes.NewReader(a.Bytes))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
}

func TestEncodeWebPIsLossless(t *testing.T) {
	img := sample()
	a, err := Encode(img, Options{Format: FormatWebP})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a.MIME != "image/webp" {
		t.Fatalf("MIME = %q", a.MIME)
	}
	got, err := webp.Decode(bytes.NewReader(a.Bytes))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := got.At(31, 23).RGBA()
	want := img.RGBAAt(31, 23)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Fatalf("pixel mismatch: got %d,%d,%d want %v", r>>8, g>>8, b>>8, want)
	}
}

func TestEncodeJPEGAndPDF(t *testing.T) {
	j, err := Encode(sample(), Options{Format: FormatJPEG, JPEGQuality: 80})
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	if !bytes.HasPrefix(j.Bytes, []byte{0xFF, 0xD8}) {
		t.Fatalf("jpeg magic missing")
	}
	p, err := Encode(sample(), Options{Format: FormatPDF, FileBase: "hat"})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if p.Name != "hat.pdf" || p.MIME != "application/pdf" {
		t.Fatalf("artifact = %q %q", p.Name, p.MIME)
	}
	if !bytes.HasPrefix(p.Bytes, []byte("%PDF-")) {
		t.Fatalf("pdf header missing")
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil image")
	}
	if _, err := Encode(sample(), Options{Format: "tiff"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	a := Artifact{Name: "fair-hat.png", Bytes: []byte("x")}

	p, err := WriteFile(dir, a)
	if err != nil {
		t.Fatalf("WriteFile dir: %v", err)
	}
	if p != filepath.Join(dir, "fair-hat.png") {
		t.Fatalf("path = %q", p)
	}
	nested := filepath.Join(dir, "out", "custom.png")
	if _, err := WriteFile(nested, a); err != nil {
		t.Fatalf("WriteFile nested: %v", err)
	}
	if b, err := os.ReadFile(nested); err != nil || string(b) != "x" {
		t.Fatalf("read back: %q %v", b, err)
	}
}
