/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export encodes a composited raster into a downloadable artifact.
package export

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// DefaultFileBase is the artifact file name without extension.
const DefaultFileBase = "fair-hat"

// Formats lists every supported format, default first.
func Formats() []Format { return []Format{FormatPNG, FormatWebP, FormatJPEG, FormatPDF} }

// ParseFormat accepts a format name or a file extension, case-insensitively.
// An empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// MIME returns the media type of the encoded artifact.
func (f Format) MIME() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// FileName builds "<base><ext>", falling back to DefaultFileBase.
func FileName(base string, f Format) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultFileBase
	}
	return base + f.Ext()
}

// Artifact is a one-shot encoded export handed to the caller.
type Artifact struct {
	Name  string
	MIME  string
	Bytes []byte
}

// Options controls encoding. Zero values select defaults.
type Options struct {
	Format      Format
	FileBase    string
	JPEGQuality int // 1..100, default 92
	Title       string
}

const defaultJPEGQuality = 92

// Encode flattens img into an artifact of the requested format.
func Encode(img image.Image, opt Options) (Artifact, error) {
	if img == nil || img.Bounds().Empty() {
		return Artifact{}, fmt.Errorf("encode: empty image")
	}
	f := opt.Format
	if f == "" {
		f = FormatPNG
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = encodePNG(&buf, img)
	case FormatWebP:
		err = encodeWebP(&buf, img)
	case FormatJPEG:
		err = encodeJPEG(&buf, img, opt.JPEGQuality)
	case FormatPDF:
		err = encodePDF(&buf, img, opt.Title)
	default:
		return Artifact{}, fmt.Errorf("unknown format: %s", f)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", f, err)
	}
	return Artifact{Name: FileName(opt.FileBase, f), MIME: f.MIME(), Bytes: buf.Bytes()}, nil
}

// WriteFile stores the artifact at path. When path is a directory the artifact's
// own name is used inside it. The resolved path is returned.
func WriteFile(path string, a Artifact) (string, error) {
	if path == "" {
		path = a.Name
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, a.Name)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return path, nil
}
