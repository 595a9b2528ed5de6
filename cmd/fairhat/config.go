/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"sort"

	"fairhat/internal/config"

	"gopkg.in/yaml.v3"
)

// runConfig prints the effective configuration, its path, or writes the defaults.
func runConfig(args []string, stdout io.Writer) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, p)
		return nil
	case "init":
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if err := config.SaveTo(p, config.Defaults()); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, "Wrote defaults to", p)
		return nil
	case "show":
		cfg, err := config.Load()
		if err != nil {
			_, _ = fmt.Fprintln(stdout, "# warning:", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, _ = stdout.Write(data)
		var overridden []string
		for _, key := range configKeys {
			if env, ok := config.EnvOverrideFor(key); ok {
				overridden = append(overridden, fmt.Sprintf("# %s overridden by %s", key, env))
			}
		}
		sort.Strings(overridden)
		for _, line := range overridden {
			_, _ = fmt.Fprintln(stdout, line)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown config command %q", errUsage, sub)
	}
}

var configKeys = []string{
	"editor.rotate_step", "editor.scale_up", "editor.scale_down",
	"export.file_base", "export.format", "export.jpeg_quality", "export.overlay_base_width",
	"export.container_width", "export.container_height",
	"overlay.raster_width", "overlay.path", "status.dismiss_ms",
	"logging.level", "logging.format", "logging.source", "logging.file",
}
