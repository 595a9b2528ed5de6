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
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// encodePDF writes a single page sized to the image at 72 dpi, so one pixel maps
// to one point. The raster is embedded as PNG to keep it lossless.
func encodePDF(w io.Writer, img image.Image, title string) error {
	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())

	var raster bytes.Buffer
	if err := encodePNG(&raster, img); err != nil {
		return fmt.Errorf("embed raster: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	if title == "" {
		title = "Fair Hat"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("fairhat", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wd, Ht: ht})

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("composite", opts, &raster)
	pdf.ImageOptions("composite", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
