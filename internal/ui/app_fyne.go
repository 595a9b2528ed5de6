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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"fairhat/internal/config"
	"fairhat/internal/crash"
	"fairhat/internal/domain"
	"fairhat/internal/export"
	applog "fairhat/internal/log"
	"fairhat/internal/pose"
	"fairhat/internal/session"
	"fairhat/internal/status"
	"fairhat/internal/transform"
	"fairhat/internal/version"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".tga"}

// Run starts the Fyne-based desktop editor. Pass an optional photo path to open immediately.
func Run(photoPath string) error {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("ui")
	if cfgErr != nil {
		l.Warn("config problems, using defaults where needed", slog.Any("err", cfgErr))
	}
	l.Info("starting UI", slog.String("version", version.String()))

	ed, err := session.New(session.OptionsFrom(cfg, l.With(slog.String("component", "session"))))
	if err != nil {
		return err
	}
	defer ed.Close()
	defer crash.Recover(&crash.Report{
		SessionID: ed.ID(),
		Pose:      func() ([]byte, error) { return encodePose(ed) },
	})

	fyneApp := app.NewWithID("fairhat")
	w := fyneApp.NewWindow("Fair Hat")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1000)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	preview := NewPreviewCanvas(ed)
	statusLabel := widget.NewLabel("Open a photo to start.")
	poseLabel := widget.NewLabel(describePose(ed.Transform()))

	refresh := func() {
		preview.Refresh()
		poseLabel.SetText(describePose(ed.Transform()))
	}
	preview.OnChanged = func() { poseLabel.SetText(describePose(ed.Transform())) }

	ed.Status().Subscribe(func(ev status.Event) {
		fyne.Do(func() {
			if ev.Dismissed {
				statusLabel.SetText("")
				return
			}
			statusLabel.SetText(ev.Message.Text)
		})
	})

	loadPhoto := func(name string, data []byte) {
		go func() {
			_, err := ed.LoadBaseImage(name, data)
			fyne.Do(func() {
				if err != nil {
					l.Warn("photo not loaded", slog.Any("err", err))
				}
				refresh()
			})
		}()
	}

	openPhoto := widget.NewButton("Open Photo…", func() {
		fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if r == nil {
				return
			}
			defer func() { _ = r.Close() }()
			data, err := io.ReadAll(r)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			loadPhoto(r.URI().Name(), data)
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter(imageExtensions))
		fd.Show()
	})

	openOverlay := widget.NewButton("Custom Hat…", func() {
		fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			defer func() { _ = r.Close() }()
			data, err := io.ReadAll(r)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			_ = ed.LoadOverlay(r.URI().Name(), data)
			refresh()
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter(imageExtensions))
		fd.Show()
	})

	rotL := widget.NewButton("⟲ Rotate", func() { ed.Rotate(transform.Left); refresh() })
	rotR := widget.NewButton("⟳ Rotate", func() { ed.Rotate(transform.Right); refresh() })
	bigger := widget.NewButton("Bigger", func() { ed.ScaleBy(transform.Up); refresh() })
	smaller := widget.NewButton("Smaller", func() { ed.ScaleBy(transform.Down); refresh() })
	mirror := widget.NewButton("Mirror", func() { ed.ToggleMirror(); refresh() })
	reset := widget.NewButton("Reset", func() { ed.Reset(); refresh() })

	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}
	formatSelect := widget.NewSelect(formats, func(s string) {
		if f, err := export.ParseFormat(s); err == nil {
			ed.SetExportFormat(f)
		}
	})
	formatSelect.SetSelected(string(cfg.ExportFormat()))

	exportBtn := widget.NewButton("Export…", func() {
		if !ed.HasBaseImage() {
			ed.Status().Show(status.Error, "Load a photo first.")
			return
		}
		opts := ed.ExportOptions()
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			go func() {
				a, err := ed.ExportComposite(domain.Box{})
				if err == nil {
					_, err = wc.Write(a.Bytes)
				}
				cerr := wc.Close()
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(err, w)
						return
					}
					if cerr != nil {
						dialog.ShowError(cerr, w)
					}
				})
			}()
		}, w)
		fd.SetFileName(export.FileName(opts.FileBase, opts.Format))
		fd.Show()
	})

	savePose := widget.NewButton("Save Pose…", func() {
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer func() { _ = wc.Close() }()
			data, err := encodePose(ed)
			if err == nil {
				_, err = wc.Write(data)
			}
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			ed.Status().Show(status.Success, "Pose saved")
		}, w)
		fd.SetFileName("pose.json")
		fd.Show()
	})
	loadPose := widget.NewButton("Load Pose…", func() {
		fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			defer func() { _ = r.Close() }()
			data, err := io.ReadAll(r)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			doc, err := pose.Parse(data)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			ed.ApplyPose(doc.Transform)
			refresh()
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
		fd.Show()
	})

	toolbar := container.NewHBox(openPhoto, openOverlay, widget.NewSeparator(),
		rotL, rotR, bigger, smaller, mirror, reset, widget.NewSeparator(),
		formatSelect, exportBtn, savePose, loadPose)
	footer := container.NewBorder(nil, nil, statusLabel, poseLabel)
	w.SetContent(container.NewBorder(toolbar, footer, nil, nil, preview))

	// Keyboard: Q/E rotate, +/- scale, M mirror, 0 reset.
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyQ:
			ed.Rotate(transform.Left)
		case fyne.KeyE:
			ed.Rotate(transform.Right)
		case fyne.KeyEqual:
			ed.ScaleBy(transform.Up)
		case fyne.KeyMinus:
			ed.ScaleBy(transform.Down)
		case fyne.KeyM:
			ed.ToggleMirror()
		case fyne.Key0:
			ed.Reset()
		default:
			return
		}
		refresh()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		openPhoto.OnTapped()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		exportBtn.OnTapped()
	})

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if photoPath != "" {
		data, err := os.ReadFile(photoPath)
		if err != nil {
			l.Error("open photo failed", slog.String("path", photoPath), slog.Any("err", err))
			statusLabel.SetText(fmt.Sprintf("Could not open %s", filepath.Base(photoPath)))
		} else {
			loadPhoto(filepath.Base(photoPath), data)
		}
	}

	w.ShowAndRun()
	return nil
}

func encodePose(ed *session.Editor) ([]byte, error) {
	c := ed.Container()
	return pose.Encode(ed.Transform(), &c)
}

func describePose(t transform.Transform) string {
	facing := "right"
	if t.FlipX {
		facing = "left"
	}
	return fmt.Sprintf("x %.0f  y %.0f  %.0f°  ×%.2f  facing %s",
		t.Position.X, t.Position.Y, t.NormalizedRotation(), t.Scale, facing)
}
