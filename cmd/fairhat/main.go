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
	"fmt"
	"io"
	"log/slog"
	"os"

	"fairhat/internal/crash"
	applog "fairhat/internal/log"
	"fairhat/internal/ui"
	"fairhat/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Fair Hat: put a hat on a photo")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  fairhat version|-v|--version               Show version")
	_, _ = fmt.Fprintln(w, "  fairhat compose -photo <file> [flags]      Composite the hat onto a photo (see compose -h)")
	_, _ = fmt.Fprintln(w, "  fairhat config [show|path|init]            Show the effective configuration")
	_, _ = fmt.Fprintln(w, "  fairhat ui [<photo>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// environment defaults until a subcommand loads the config
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	rep := &crash.Report{}
	defer crash.Recover(rep)
	defer func() { _ = applog.Close() }()
	fail := func(cmd string, err error) {
		l.Error(cmd+" failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = applog.Close()
		os.Exit(exitCode(err))
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Fair Hat")
			fmt.Println(version.String())
			return
		case "compose":
			if err := runCompose(args[2:], os.Stdout, rep); err != nil {
				fail("compose", err)
			}
			return
		case "config":
			if err := runConfig(args[2:], os.Stdout); err != nil {
				fail("config", err)
			}
			return
		case "ui":
			var photo string
			if len(args) >= 3 {
				photo = args[2]
			}
			if err := ui.Run(photo); err != nil {
				if errors.Is(err, ui.ErrUnavailable) {
					fmt.Fprintln(os.Stderr, "Headless alternative: fairhat compose -photo <file> [flags]")
				}
				fail("ui", err)
			}
			return
		}
	}

	usage(os.Stdout)
}
