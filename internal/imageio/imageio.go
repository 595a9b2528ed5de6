/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imageio detects, decodes and fully materialises the base photo and the overlay.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"fairhat/internal/domain"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// MaxPixels bounds decoded images so a hostile header cannot force a huge allocation.
const MaxPixels = 16384 * 16384

// Resource names used in errors and logs.
const (
	ResourceBase    = "base"
	ResourceOverlay = "overlay"
)

// Info describes a decoded image.
type Info struct {
	ContentType string
	Format      string // short decoder name, e.g. "png"
	Dimensions  domain.Dimensions
}

// DeclaredType returns the MIME type implied by the file name, if any.
func DeclaredType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	switch ext {
	case ".tga":
		return "image/x-tga"
	case ".webp":
		return "image/webp"
	case ".tif", ".tiff":
		return "image/tiff"
	}
	return ""
}

// Sniff decides whether the file is an image. The declared type (from the file name)
// wins when present; otherwise the content is sniffed, falling back to the registered
// decoders for formats without a well-known signature (TGA, TIFF).
func Sniff(name string, data []byte) (string, error) {
	if declared := DeclaredType(name); declared != "" && declared != "application/octet-stream" {
		if !strings.HasPrefix(declared, "image/") {
			return "", &domain.UnsupportedFormatError{Op: "sniff " + name, ContentType: declared}
		}
		return declared, nil
	}
	if len(data) == 0 {
		return "", &domain.UnsupportedFormatError{Op: "sniff", ContentType: "empty"}
	}
	if c, ok := detect(data); ok {
		return c.contentType, nil
	}
	return "", &domain.UnsupportedFormatError{Op: "sniff", ContentType: http.DetectContentType(data)}
}

type codec struct {
	name        string
	contentType string
	decode      func(io.Reader) (image.Image, error)
	config      func(io.Reader) (image.Config, error)
}

// Decoders are chosen explicitly rather than through image.Decode: TGA has no magic
// number, and a format registered with an empty magic would shadow the others.
var (
	codecPNG  = codec{"png", "image/png", png.Decode, png.DecodeConfig}
	codecJPEG = codec{"jpeg", "image/jpeg", jpeg.Decode, jpeg.DecodeConfig}
	codecGIF  = codec{"gif", "image/gif", gif.Decode, gif.DecodeConfig}
	codecWEBP = codec{"webp", "image/webp", webp.Decode, webp.DecodeConfig}
	codecBMP  = codec{"bmp", "image/bmp", bmp.Decode, bmp.DecodeConfig}
	codecTIFF = codec{"tiff", "image/tiff", tiff.Decode, tiff.DecodeConfig}
	codecTGA  = codec{"tga", "image/x-tga", tga.Decode, tga.DecodeConfig}
)

// detect picks a codec from the content signature; TGA is accepted only when its
// header parses.
func detect(data []byte) (codec, bool) {
	switch http.DetectContentType(data) {
	case "image/png":
		return codecPNG, true
	case "image/jpeg":
		return codecJPEG, true
	case "image/gif":
		return codecGIF, true
	case "image/webp":
		return codecWEBP, true
	case "image/bmp":
		return codecBMP, true
	}
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return codecTIFF, true
	}
	if _, err := tga.DecodeConfig(bytes.NewReader(data)); err == nil {
		return codecTGA, true
	}
	return codec{}, false
}

// Decode fully decodes data into an RGBA surface. resource names the image in errors.
func Decode(resource string, data []byte) (*image.RGBA, Info, error) {
	op := "decode " + resource
	c, ok := detect(data)
	if !ok {
		return nil, Info{}, &domain.DecodeError{Op: op, Resource: resource, Err: errors.New("unrecognised image data")}
	}
	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, &domain.DecodeError{Op: op, Resource: resource, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, Info{}, &domain.DecodeError{Op: op, Resource: resource, Err: errors.New("empty image")}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, Info{}, &domain.DecodeError{Op: op, Resource: resource,
			Err: fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)}
	}
	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, &domain.DecodeError{Op: op, Resource: resource, Err: err}
	}
	rgba := ToRGBA(img)
	b := rgba.Bounds()
	return rgba, Info{
		ContentType: c.contentType,
		Format:      c.name,
		Dimensions:  domain.Dimensions{Width: b.Dx(), Height: b.Dy()},
	}, nil
}

// ToRGBA copies src into a zero-origin RGBA image. An RGBA with zero origin is returned as-is.
func ToRGBA(src image.Image) *image.RGBA {
	if r, ok := src.(*image.RGBA); ok && r.Bounds().Min == (image.Point{}) {
		return r
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
