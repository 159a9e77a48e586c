// Package pipeline runs the deploy sequence for one orthophoto: inspect,
// archive, tile, publish, report. The sequence is strictly forward; the
// first failing step aborts the run and nothing done by earlier steps is
// rolled back.
package pipeline

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"padmap/pkg/gdal"
	"padmap/pkg/ortho"
	"padmap/pkg/utils"
	"padmap/pkg/vcs"
)

// RasterInspector sanity-checks a raster before anything touches the
// filesystem. The returned text is shown to the operator, not parsed.
type RasterInspector interface {
	Inspect(rasterPath string) (string, error)
}

// TileGenerator builds the XYZ pyramid for a raster into an existing
// directory.
type TileGenerator interface {
	Generate(rasterPath, tileDir string) error
}

// VersionControl stages, commits and pushes against the tile repository
// checkout.
type VersionControl interface {
	Add(path string) error
	Commit(message string) error
	Push() error
}

// Deployer holds the collaborators and configuration for deploy runs. The
// repository root and tool locations are explicit so tests can point the
// pipeline at fakes and a temp checkout.
type Deployer struct {
	RepoRoot  string
	BaseURL   string
	Inspector RasterInspector
	Tiler     TileGenerator
	VCS       VersionControl
	Out       io.Writer
}

// New wires a Deployer with the real exec-backed collaborators.
func New(cfg *ortho.Config) *Deployer {
	return &Deployer{
		RepoRoot:  cfg.RepoRoot,
		BaseURL:   cfg.BaseURL,
		Inspector: &gdal.Info{Bin: cfg.GDALInfo},
		Tiler:     &gdal.Tiler{Bin: cfg.GDAL2Tiles},
		VCS:       vcs.New(cfg.Git, cfg.RepoRoot),
		Out:       os.Stdout,
	}
}

// Run deploys one validated request and returns the published URL template.
// On success the template is also printed to Out as the final line; its
// absence tells the operator the run died at whichever step logged last.
func (d *Deployer) Run(req *ortho.DeployRequest) (string, error) {
	plan := ortho.PlanStorage(req)

	report, err := d.Inspector.Inspect(req.RasterPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ortho.ErrInvalidRaster, err)
	}
	if report != "" {
		fmt.Fprintln(d.Out, report)
	}

	archive, err := d.archive(req, plan)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ortho.ErrArchive, err)
	}
	log.Println("[deploy] archived", plan.ArchivePath())

	if err := d.tile(archive, plan); err != nil {
		return "", fmt.Errorf("%w: %v", ortho.ErrTileGeneration, err)
	}
	log.Println("[deploy] tiled", plan.TileDir)

	if err := d.publish(req, plan); err != nil {
		return "", fmt.Errorf("%w: %v", ortho.ErrPublish, err)
	}
	log.Println("[deploy] pushed", plan.TileDir)

	url := plan.TileURL(d.BaseURL)
	fmt.Fprintln(d.Out, url)

	return url, nil
}

// archive copies the source raster into the canonical source tree and
// returns the destination path. An archive left by a previous run of the
// same triple is overwritten.
func (d *Deployer) archive(req *ortho.DeployRequest, plan ortho.StoragePlan) (string, error) {
	dir := filepath.Join(d.RepoRoot, filepath.FromSlash(plan.ArchiveDir))
	if err := utils.CreateFolder(dir); err != nil {
		return "", err
	}

	dst := filepath.Join(dir, plan.ArchiveFileName)
	if err := utils.CopyFile(req.RasterPath, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// tile generates the pyramid from the archived copy so the published tiles
// always correspond to a raster held in the source tree.
func (d *Deployer) tile(archive string, plan ortho.StoragePlan) error {
	dir := filepath.Join(d.RepoRoot, filepath.FromSlash(plan.TileDir))
	if err := utils.CreateFolder(dir); err != nil {
		return err
	}

	return d.Tiler.Generate(archive, dir)
}

// publish stages exactly the tile directory, not the source archive.
func (d *Deployer) publish(req *ortho.DeployRequest, plan ortho.StoragePlan) error {
	if err := d.VCS.Add(plan.TileDir); err != nil {
		return err
	}

	if err := d.VCS.Commit("Add tiles: " + req.Layer()); err != nil {
		return err
	}

	return d.VCS.Push()
}
