/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fairhat/internal/config"
	"fairhat/internal/crash"
	"fairhat/internal/domain"
	"fairhat/internal/export"
	applog "fairhat/internal/log"
	"fairhat/internal/pose"
	"fairhat/internal/session"
	"fairhat/internal/transform"
)

// errUsage marks bad command lines; they exit with 2 like flag parsing errors.
var errUsage = errors.New("usage")

func exitCode(err error) int {
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		return 2
	}
	return 1
}

// boxFlag parses "WxH".
type boxFlag struct {
	box domain.Box
	set bool
}

func (b *boxFlag) String() string {
	if !b.set {
		return ""
	}
	return b.box.String()
}

func (b *boxFlag) Set(s string) error {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return fmt.Errorf("want WxH, got %q", s)
	}
	bw, err1 := strconv.ParseFloat(w, 64)
	bh, err2 := strconv.ParseFloat(h, 64)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("want WxH, got %q", s)
	}
	box := domain.Box{Width: bw, Height: bh}
	if !box.Valid() {
		return fmt.Errorf("container must be positive, got %q", s)
	}
	b.box, b.set = box, true
	return nil
}

type composeFlags struct {
	photo, out, overlay, poseIn, poseOut, format string
	x, y                                         float64
	rotLeft, rotRight, scaleUp, scaleDown        int
	mirror                                       bool
	container                                    boxFlag
}

func parseComposeFlags(args []string, stderr io.Writer) (composeFlags, map[string]bool, error) {
	var f composeFlags
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.photo, "photo", "", "photo to put the hat on (required)")
	fs.StringVar(&f.out, "out", "", "output file or directory (default: <file_base>.<ext> in the current directory)")
	fs.StringVar(&f.overlay, "overlay", "", "custom hat image replacing the built-in artwork")
	fs.StringVar(&f.poseIn, "pose", "", "pose JSON to start from")
	fs.StringVar(&f.poseOut, "save-pose", "", "write the final pose JSON here")
	fs.StringVar(&f.format, "format", "", "png, webp, jpeg or pdf (default from config)")
	fs.Float64Var(&f.x, "x", 0, "horizontal offset of the hat center from the preview center, in preview pixels")
	fs.Float64Var(&f.y, "y", 0, "vertical offset of the hat center from the preview center, in preview pixels")
	fs.IntVar(&f.rotLeft, "rotate-left", 0, "rotate left this many steps")
	fs.IntVar(&f.rotRight, "rotate-right", 0, "rotate right this many steps")
	fs.IntVar(&f.scaleUp, "scale-up", 0, "grow this many steps")
	fs.IntVar(&f.scaleDown, "scale-down", 0, "shrink this many steps")
	fs.BoolVar(&f.mirror, "mirror", false, "face the hat the other way")
	fs.Var(&f.container, "container", "preview box WxH the pose refers to (default from pose or config)")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if f.photo == "" {
		fs.Usage()
		return f, set, fmt.Errorf("%w: -photo is required", errUsage)
	}
	if f.rotLeft < 0 || f.rotRight < 0 || f.scaleUp < 0 || f.scaleDown < 0 {
		return f, set, fmt.Errorf("%w: step counts must not be negative", errUsage)
	}
	return f, set, nil
}

// runCompose loads the photo, applies the pose and step flags, and writes the composite.
func runCompose(args []string, stdout io.Writer, rep *crash.Report) error {
	f, set, err := parseComposeFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("compose")
	if cfgErr != nil {
		l.Warn("config problems, using defaults where needed", slog.Any("err", cfgErr))
	}
	if f.format != "" {
		ff, err := export.ParseFormat(f.format)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg.Export.Format = string(ff)
	}

	ed, err := session.New(session.OptionsFrom(cfg, l))
	if err != nil {
		return err
	}
	defer ed.Close()
	if rep != nil {
		rep.SessionID = ed.ID()
		rep.Photo = f.photo
		rep.Pose = func() ([]byte, error) {
			c := ed.Container()
			return pose.Encode(ed.Transform(), &c)
		}
	}

	data, err := os.ReadFile(f.photo)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	dims, err := ed.LoadBaseImage(filepath.Base(f.photo), data)
	if err != nil {
		return err
	}

	overlayPath := f.overlay
	if overlayPath == "" {
		overlayPath = cfg.Overlay.Path
	}
	if overlayPath != "" {
		data, err := os.ReadFile(overlayPath)
		if err != nil {
			return fmt.Errorf("read overlay: %w", err)
		}
		if err := ed.LoadOverlay(filepath.Base(overlayPath), data); err != nil {
			return err
		}
	}

	container := cfg.Container()
	if f.poseIn != "" {
		data, err := os.ReadFile(f.poseIn)
		if err != nil {
			return fmt.Errorf("read pose: %w", err)
		}
		doc, err := pose.Parse(data)
		if err != nil {
			return err
		}
		ed.ApplyPose(doc.Transform)
		if doc.Container != nil {
			container = *doc.Container
		}
	}
	if f.container.set {
		container = f.container.box
	}
	ed.SetContainer(container)

	applySteps(ed, f, set)

	a, err := ed.ExportComposite(container)
	if err != nil {
		return err
	}
	path, err := export.WriteFile(f.out, a)
	if err != nil {
		return err
	}
	if f.poseOut != "" {
		c := container
		data, err := pose.Encode(ed.Transform(), &c)
		if err != nil {
			return fmt.Errorf("encode pose: %w", err)
		}
		if err := os.WriteFile(f.poseOut, data, 0o644); err != nil {
			return fmt.Errorf("write pose: %w", err)
		}
	}
	l.Info("composite written", slog.String("path", path), slog.String("dims", dims.String()))
	_, _ = fmt.Fprintf(stdout, "Wrote %s (%s, %s)\n", path, dims, a.MIME)
	return nil
}

// applySteps applies flag-driven changes on top of the starting pose. Position flags
// replace the respective coordinate only when given.
func applySteps(ed *session.Editor, f composeFlags, set map[string]bool) {
	if set["x"] || set["y"] {
		p := ed.Transform().Position
		if set["x"] {
			p.X = f.x
		}
		if set["y"] {
			p.Y = f.y
		}
		ed.SetPosition(p)
	}
	for i := 0; i < f.rotLeft; i++ {
		ed.Rotate(transform.Left)
	}
	for i := 0; i < f.rotRight; i++ {
		ed.Rotate(transform.Right)
	}
	for i := 0; i < f.scaleUp; i++ {
		ed.ScaleBy(transform.Up)
	}
	for i := 0; i < f.scaleDown; i++ {
		ed.ScaleBy(transform.Down)
	}
	if f.mirror {
		ed.ToggleMirror()
	}
}
