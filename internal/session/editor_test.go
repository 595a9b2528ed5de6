/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"fairhat/internal/domain"
	"fairhat/internal/export"
	"fairhat/internal/gesture"
	"fairhat/internal/overlay"
	"fairhat/internal/status"
	"fairhat/internal/transform"
)

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func newEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	opts.Scheduler = func(time.Duration, func()) status.Timer { return noopTimer{} }
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.OverlayRasterWidth == 0 {
		opts.OverlayRasterWidth = 128
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func statusText(t *testing.T, e *Editor) string {
	t.Helper()
	msg, ok := e.Status().Current()
	if !ok {
		t.Fatalf("expected a status message")
	}
	return msg.Text
}

func TestNewStartsAtIdentity(t *testing.T) {
	e := newEditor(t, Options{})
	if !e.Transform().IsIdentity() || e.HasBaseImage() || e.ID() == "" {
		t.Fatalf("fresh editor state unexpected: %+v", e.Transform())
	}
	if e.CurrentOverlayAsset() != overlay.RightFacing {
		t.Fatalf("asset = %s", e.CurrentOverlayAsset())
	}
}

func TestLoadBaseImageReturnsDimensions(t *testing.T) {
	e := newEditor(t, Options{})
	dims, err := e.LoadBaseImage("party.png", pngBytes(t, 160, 120, color.RGBA{0, 0, 255, 255}))
	if err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	if dims != (domain.Dimensions{Width: 160, Height: 120}) {
		t.Fatalf("dims = %v", dims)
	}
	if got, ok := e.Dimensions(); !ok || got != dims {
		t.Fatalf("Dimensions = %v, %v", got, ok)
	}
	if e.BaseName() != "party.png" {
		t.Fatalf("BaseName = %q", e.BaseName())
	}
}

func TestUnsupportedFormatLeavesStateUnchanged(t *testing.T) {
	e := newEditor(t, Options{})
	if _, err := e.LoadBaseImage("a.png", pngBytes(t, 40, 30, color.RGBA{255, 255, 255, 255})); err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	e.Rotate(transform.Right)
	before := e.Transform()

	_, err := e.LoadBaseImage("notes.txt", []byte("hello"))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want unsupported format", err)
	}
	if dims, ok := e.Dimensions(); !ok || dims.Width != 40 {
		t.Fatalf("previous photo lost: %v %v", dims, ok)
	}
	if e.Transform() != before {
		t.Fatalf("transform changed on failed load")
	}
	if statusText(t, e) != "That file is not an image." {
		t.Fatalf("status = %q", statusText(t, e))
	}
}

func TestCorruptImageIsDecodeError(t *testing.T) {
	e := newEditor(t, Options{})
	data := pngBytes(t, 20, 20, color.RGBA{1, 2, 3, 255})
	_, err := e.LoadBaseImage("broken.png", data[:len(data)/2])
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("err = %v, want decode error", err)
	}
	if e.HasBaseImage() {
		t.Fatalf("broken image should not be loaded")
	}
}

func TestExportWithoutBaseImage(t *testing.T) {
	e := newEditor(t, Options{})
	_, err := e.ExportComposite(domain.Box{})
	var pe *domain.PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PreconditionError", err)
	}
	if statusText(t, e) != "Load a photo first." {
		t.Fatalf("status = %q", statusText(t, e))
	}
}

func TestExportCompositeProducesNativePNG(t *testing.T) {
	e := newEditor(t, Options{})
	if _, err := e.LoadBaseImage("photo.png", pngBytes(t, 1600, 1200, color.RGBA{255, 255, 255, 255})); err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	e.ScaleBy(transform.Up)
	e.ToggleMirror()
	before := e.Transform()

	a, err := e.ExportComposite(domain.Box{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("ExportComposite: %v", err)
	}
	if a.Name != "fair-hat.png" || a.MIME != "image/png" {
		t.Fatalf("artifact = %q %q", a.Name, a.MIME)
	}
	img, err := png.Decode(bytes.NewReader(a.Bytes))
	if err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if img.Bounds().Dx() != 1600 || img.Bounds().Dy() != 1200 {
		t.Fatalf("artifact bounds = %v", img.Bounds())
	}
	if e.Transform() != before {
		t.Fatalf("export mutated the transform")
	}
	if statusText(t, e) != "Exported fair-hat.png" {
		t.Fatalf("status = %q", statusText(t, e))
	}
}

func TestExportHonoursFormatOption(t *testing.T) {
	e := newEditor(t, Options{Export: export.Options{Format: export.FormatPDF, FileBase: "hat"}})
	if _, err := e.LoadBaseImage("photo.png", pngBytes(t, 64, 48, color.RGBA{9, 9, 9, 255})); err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	a, err := e.ExportComposite(domain.Box{})
	if err != nil {
		t.Fatalf("ExportComposite: %v", err)
	}
	if a.Name != "hat.pdf" || !bytes.HasPrefix(a.Bytes, []byte("%PDF-")) {
		t.Fatalf("artifact = %q", a.Name)
	}
}

func TestDragMovesOverlay(t *testing.T) {
	e := newEditor(t, Options{Container: domain.Box{Width: 800, Height: 600}})

	if e.PointerDown(1, domain.Point{X: 10, Y: 10}) {
		t.Fatalf("press far from the overlay should not start a drag")
	}
	if !e.PointerDown(1, domain.Point{X: 400, Y: 300}) {
		t.Fatalf("press on the overlay should start a drag")
	}
	e.PointerMove(2, domain.Point{X: 0, Y: 0})
	e.PointerMove(1, domain.Point{X: 450, Y: 320})
	if got := e.Transform().Position; got != (domain.Point{X: 50, Y: 20}) {
		t.Fatalf("position = %v", got)
	}
	e.PointerLeave()
	if e.DragState() != gesture.Idle {
		t.Fatalf("pointer leave should end the drag")
	}
	e.PointerMove(1, domain.Point{X: 500, Y: 500})
	if got := e.Transform().Position; got != (domain.Point{X: 50, Y: 20}) {
		t.Fatalf("move after drag end changed position: %v", got)
	}
}

func TestTouchDragIgnoresSecondFinger(t *testing.T) {
	e := newEditor(t, Options{})
	if !e.TouchStart([]gesture.TouchPoint{{ID: 7, Pos: domain.Point{X: 400, Y: 300}}}) {
		t.Fatalf("touch start should begin a drag")
	}
	two := []gesture.TouchPoint{{ID: 7, Pos: domain.Point{X: 420, Y: 300}}, {ID: 8, Pos: domain.Point{X: 100, Y: 100}}}
	if e.TouchStart(two) || e.TouchMove(two) {
		t.Fatalf("a second finger must be ignored")
	}
	e.TouchMove([]gesture.TouchPoint{{ID: 7, Pos: domain.Point{X: 390, Y: 310}}})
	if got := e.Transform().Position; got != (domain.Point{X: -10, Y: 10}) {
		t.Fatalf("position = %v", got)
	}
	e.TouchEnd(7, 0)
	if e.DragState() != gesture.Idle {
		t.Fatalf("touch end should end the drag")
	}
}

func TestNewBaseImageCancelsDragKeepsPose(t *testing.T) {
	e := newEditor(t, Options{})
	e.PointerDown(1, domain.Point{X: 400, Y: 300})
	e.PointerMove(1, domain.Point{X: 430, Y: 300})
	if _, err := e.LoadBaseImage("b.png", pngBytes(t, 10, 10, color.RGBA{0, 0, 0, 255})); err != nil {
		t.Fatalf("LoadBaseImage: %v", err)
	}
	if e.DragState() != gesture.Idle {
		t.Fatalf("drag should be cancelled by a new photo")
	}
	if got := e.Transform().Position; got.X != 30 {
		t.Fatalf("pose should be kept, position = %v", got)
	}
}

func TestMirrorSwapsAsset(t *testing.T) {
	e := newEditor(t, Options{})
	e.ToggleMirror()
	if e.CurrentOverlayAsset() != overlay.LeftFacing {
		t.Fatalf("asset = %s", e.CurrentOverlayAsset())
	}
	e.ToggleMirror()
	if e.CurrentOverlayAsset() != overlay.RightFacing {
		t.Fatalf("asset = %s", e.CurrentOverlayAsset())
	}
}

func TestConfiguredSteps(t *testing.T) {
	e := newEditor(t, Options{Steps: transform.Steps{RotateDegrees: 30, UpFactor: 2}})
	e.Rotate(transform.Right)
	got := e.ScaleBy(transform.Up)
	if got.Rotation != 30 || got.Scale != 2 {
		t.Fatalf("transform = %+v", got)
	}
	if got := e.ScaleBy(transform.Down); got.Scale != 2*transform.ScaleDownFactor {
		t.Fatalf("default down factor not used: %v", got.Scale)
	}
}

func TestApplyPoseAndReset(t *testing.T) {
	e := newEditor(t, Options{})
	got := e.ApplyPose(transform.Transform{Position: domain.Point{X: 5}, Rotation: 720, Scale: 99, FlipX: true})
	if got.Scale != transform.MaxScale || got.Rotation != 720 || !got.FlipX {
		t.Fatalf("ApplyPose = %+v", got)
	}
	if !e.Reset().IsIdentity() {
		t.Fatalf("Reset did not restore identity")
	}
}

func TestPreviewUsesContainer(t *testing.T) {
	e := newEditor(t, Options{})
	e.SetContainer(domain.Box{Width: 320, Height: 240})
	e.SetContainer(domain.Box{Width: -1, Height: 5})
	img, err := e.Preview()
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("preview bounds = %v", img.Bounds())
	}
}

func TestLoadOverlayReplacesArtwork(t *testing.T) {
	e := newEditor(t, Options{})
	if err := e.LoadOverlay("crown.png", pngBytes(t, 30, 10, color.RGBA{255, 215, 0, 255})); err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}
	if b := e.OverlayBounds(); b.Dx() != 30 || b.Dy() != 10 || !e.CustomOverlay() {
		t.Fatalf("overlay = %v custom=%v", b, e.CustomOverlay())
	}
	if err := e.UseBuiltinOverlay(); err != nil || e.CustomOverlay() {
		t.Fatalf("UseBuiltinOverlay: %v", err)
	}
}
