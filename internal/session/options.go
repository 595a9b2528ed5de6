/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"log/slog"

	"fairhat/internal/compositor"
	"fairhat/internal/config"
	"fairhat/internal/export"
)

// OptionsFrom maps the user configuration onto editor options.
func OptionsFrom(cfg config.AppConfig, l *slog.Logger) Options {
	return Options{
		Steps:  cfg.Steps(),
		Render: compositor.Options{OverlayWidth: cfg.Export.OverlayBaseWidth},
		Export: export.Options{
			Format:      cfg.ExportFormat(),
			FileBase:    cfg.Export.FileBase,
			JPEGQuality: cfg.Export.JPEGQuality,
		},
		OverlayRasterWidth: cfg.Overlay.RasterWidth,
		Container:          cfg.Container(),
		DismissAfter:       cfg.DismissAfter(),
		Logger:             l,
	}
}
