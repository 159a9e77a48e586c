// Package gdal wraps the external GDAL command line tools the deploy
// pipeline delegates to: gdalinfo for raster sanity checks and gdal2tiles
// for pyramid generation. Both are driven over os/exec with their output
// captured; nothing is parsed out of it.
package gdal

import (
	"fmt"
	"os/exec"
	"strings"
)

// Pyramid parameters are fixed: the farm viewer only ever requests these
// zoom levels, and all layers must share the XYZ addressing scheme.
const (
	minZoom   = 17
	maxZoom   = 22
	processes = 4
)

// Info invokes gdalinfo against a raster. A non-zero exit means the file is
// not something GDAL can read as a georeferenced raster.
type Info struct {
	Bin string
}

// Inspect runs gdalinfo on the raster and returns its descriptive output.
// The text is surfaced to the operator as a sanity check, never parsed.
func (i *Info) Inspect(rasterPath string) (string, error) {
	out, err := exec.Command(i.bin(), rasterPath).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %v\n%s", i.bin(), rasterPath, err, strings.TrimSpace(string(out)))
	}

	return strings.TrimSpace(string(out)), nil
}

func (i *Info) bin() string {
	if i.Bin == "" {
		return "gdalinfo"
	}
	return i.Bin
}

// Tiler invokes gdal2tiles to build the zoom 17-22 XYZ pyramid for a raster.
type Tiler struct {
	Bin string
}

// Generate tiles the raster into tileDir. The directory must already exist;
// on failure any partial output is left in place for the operator to remove
// before retrying.
func (t *Tiler) Generate(rasterPath, tileDir string) error {
	args := tileArgs(rasterPath, tileDir)
	out, err := exec.Command(t.bin(), args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %v\n%s", t.bin(), strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}

	return nil
}

// tileArgs fixes the pyramid parameters: zoom range, XYZ addressing (origin
// top-left), no background fill for empty tiles, four worker processes.
func tileArgs(rasterPath, tileDir string) []string {
	return []string{
		"-z", fmt.Sprintf("%d-%d", minZoom, maxZoom),
		"--xyz",
		"-x",
		fmt.Sprintf("--processes=%d", processes),
		rasterPath,
		tileDir,
	}
}

func (t *Tiler) bin() string {
	if t.Bin == "" {
		return "gdal2tiles.py"
	}
	return t.Bin
}
