//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"fairhat/internal/domain"
	"fairhat/internal/gesture"
	"fairhat/internal/session"
)

// touchID is the synthetic id used for drags that arrive without a mouse press.
const touchID = 0

// PreviewCanvas renders the editor preview and forwards pointer input to it.
// Widget coordinates are the container coordinates the editor works in.
type PreviewCanvas struct {
	widget.BaseWidget

	ed     *session.Editor
	raster *canvas.Raster

	mouseButton int  // button holding the current press, -1 when none
	touching    bool // drag delivered without a mouse press (touch screens)

	// OnChanged runs after a drag moved the overlay.
	OnChanged func()
}

// NewPreviewCanvas returns a preview bound to ed.
func NewPreviewCanvas(ed *session.Editor) *PreviewCanvas {
	p := &PreviewCanvas{ed: ed, mouseButton: -1}
	p.raster = canvas.NewRaster(p.render)
	p.raster.ScaleMode = canvas.ImageScaleSmooth
	p.ExtendBaseWidget(p)
	return p
}

func (p *PreviewCanvas) render(w, h int) image.Image {
	img, err := p.ed.Preview()
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

func toPoint(pos fyne.Position) domain.Point {
	return domain.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

// CreateRenderer implements fyne.Widget.
func (p *PreviewCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &previewRenderer{p: p, objects: []fyne.CanvasObject{p.raster}}
}

// MinSize keeps the preview usable in small windows.
func (p *PreviewCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

// Resize reports the new container box to the editor before laying out.
func (p *PreviewCanvas) Resize(s fyne.Size) {
	p.ed.SetContainer(domain.Box{Width: float64(s.Width), Height: float64(s.Height)})
	p.BaseWidget.Resize(s)
}

// MouseDown implements desktop.Mouseable.
func (p *PreviewCanvas) MouseDown(e *desktop.MouseEvent) {
	if p.mouseButton >= 0 {
		return
	}
	if p.ed.PointerDown(int(e.Button), toPoint(e.Position)) {
		p.mouseButton = int(e.Button)
	}
}

// MouseUp implements desktop.Mouseable.
func (p *PreviewCanvas) MouseUp(e *desktop.MouseEvent) {
	if p.mouseButton == int(e.Button) {
		p.ed.PointerUp(p.mouseButton)
		p.mouseButton = -1
	}
}

// MouseIn implements desktop.Hoverable.
func (p *PreviewCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (p *PreviewCanvas) MouseMoved(e *desktop.MouseEvent) { p.moveTo(e.Position) }

// MouseOut implements desktop.Hoverable. Leaving the preview ends the drag.
func (p *PreviewCanvas) MouseOut() {
	if p.ed.PointerLeave() {
		p.mouseButton = -1
	}
}

// Dragged implements fyne.Draggable. With a mouse it follows the press; without one
// it is treated as a single-finger touch drag.
func (p *PreviewCanvas) Dragged(e *fyne.DragEvent) {
	if p.mouseButton >= 0 {
		p.moveTo(e.Position)
		return
	}
	if !p.touching {
		start := domain.Point{X: float64(e.Position.X - e.Dragged.DX), Y: float64(e.Position.Y - e.Dragged.DY)}
		p.touching = p.ed.TouchStart([]gesture.TouchPoint{{ID: touchID, Pos: start}})
		if !p.touching {
			return
		}
	}
	if p.ed.TouchMove([]gesture.TouchPoint{{ID: touchID, Pos: toPoint(e.Position)}}) {
		p.changed()
	}
}

// DragEnd implements fyne.Draggable.
func (p *PreviewCanvas) DragEnd() {
	if p.touching {
		p.ed.TouchEnd(touchID, 0)
		p.touching = false
	}
}

func (p *PreviewCanvas) moveTo(pos fyne.Position) {
	if p.mouseButton < 0 {
		return
	}
	if p.ed.PointerMove(p.mouseButton, toPoint(pos)) {
		p.changed()
	}
}

func (p *PreviewCanvas) changed() {
	p.Refresh()
	if p.OnChanged != nil {
		p.OnChanged()
	}
}

type previewRenderer struct {
	p       *PreviewCanvas
	objects []fyne.CanvasObject
}

func (r *previewRenderer) Destroy()                     {}
func (r *previewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *previewRenderer) MinSize() fyne.Size           { return r.p.MinSize() }
func (r *previewRenderer) Refresh()                     { r.p.raster.Refresh() }

func (r *previewRenderer) Layout(size fyne.Size) {
	r.p.raster.Move(fyne.NewPos(0, 0))
	r.p.raster.Resize(size)
}
