package pipeline

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"padmap/pkg/ortho"
)

type fakeInspector struct {
	report string
	err    error
	calls  []string
}

func (f *fakeInspector) Inspect(rasterPath string) (string, error) {
	f.calls = append(f.calls, rasterPath)
	return f.report, f.err
}

type fakeTiler struct {
	err   error
	calls [][2]string
}

func (f *fakeTiler) Generate(rasterPath, tileDir string) error {
	f.calls = append(f.calls, [2]string{rasterPath, tileDir})
	return f.err
}

type fakeVCS struct {
	adds      []string
	commits   []string
	pushes    int
	commitErr error
	pushErr   error
}

func (f *fakeVCS) Add(path string) error {
	f.adds = append(f.adds, path)
	return nil
}

func (f *fakeVCS) Commit(message string) error {
	f.commits = append(f.commits, message)
	return f.commitErr
}

func (f *fakeVCS) Push() error {
	f.pushes++
	return f.pushErr
}

// harness builds a Deployer over a temp checkout with all collaborators
// faked, plus a stub raster to deploy.
func harness(t *testing.T) (*Deployer, *fakeInspector, *fakeTiler, *fakeVCS, string, *bytes.Buffer) {
	t.Helper()

	repo, err := ioutil.TempDir("", "padmap-repo")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(repo) })

	raster := filepath.Join(repo, "capture.tif")
	if err := ioutil.WriteFile(raster, []byte("not really a tiff"), 0644); err != nil {
		t.Fatal(err)
	}

	inspector := &fakeInspector{report: "Driver: GTiff/GeoTIFF"}
	tiler := &fakeTiler{}
	vcs := &fakeVCS{}
	out := &bytes.Buffer{}

	d := &Deployer{
		RepoRoot:  repo,
		BaseURL:   "https://maps.example.com/farm",
		Inspector: inspector,
		Tiler:     tiler,
		VCS:       vcs,
		Out:       out,
	}

	return d, inspector, tiler, vcs, raster, out
}

func TestRunReachesReported(t *testing.T) {
	d, inspector, tiler, vcs, raster, out := harness(t)

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1", CaptureDate: "2026-02-09"}

	url, err := d.Run(req)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := url, "https://maps.example.com/farm/tiles/p1/2026-02-09/{z}/{x}/{y}.png"; got != want {
		t.Errorf("Run() => %s; want %s", got, want)
	}

	// The URL template is the final printed line.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if got, want := lines[len(lines)-1], url; got != want {
		t.Errorf("final output line => %s; want %s", got, want)
	}

	// Inspection saw the source raster, tiling saw the archived copy.
	if got, want := len(inspector.calls), 1; got != want {
		t.Fatalf("inspector calls => %d; want %d", got, want)
	}
	if got, want := inspector.calls[0], raster; got != want {
		t.Errorf("inspected => %s; want %s", got, want)
	}

	archive := filepath.Join(d.RepoRoot, "src", "p1", "2026-02-09", "p1-2026-02-09.tif")
	if got, want := len(tiler.calls), 1; got != want {
		t.Fatalf("tiler calls => %d; want %d", got, want)
	}
	if got, want := tiler.calls[0][0], archive; got != want {
		t.Errorf("tiled source => %s; want %s", got, want)
	}
	if got, want := tiler.calls[0][1], filepath.Join(d.RepoRoot, "tiles", "p1", "2026-02-09"); got != want {
		t.Errorf("tiled into => %s; want %s", got, want)
	}

	// The archive really is a copy of the source.
	data, err := ioutil.ReadFile(archive)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "not really a tiff"; got != want {
		t.Errorf("archive content => %q; want %q", got, want)
	}

	// Only the tile directory is staged, and the commit names the layer.
	if got, want := strings.Join(vcs.adds, ","), "tiles/p1/2026-02-09"; got != want {
		t.Errorf("staged => %s; want %s", got, want)
	}
	if got, want := strings.Join(vcs.commits, ","), "Add tiles: p1/2026-02-09"; got != want {
		t.Errorf("commits => %s; want %s", got, want)
	}
	if got, want := vcs.pushes, 1; got != want {
		t.Errorf("pushes => %d; want %d", got, want)
	}
}

func TestRunWithVariant(t *testing.T) {
	d, _, _, vcs, raster, _ := harness(t)

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1-p2", CaptureDate: "2026-02-09", Variant: "rgb"}

	url, err := d.Run(req)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := url, "https://maps.example.com/farm/tiles/p1-p2/2026-02-09-rgb/{z}/{x}/{y}.png"; got != want {
		t.Errorf("Run() => %s; want %s", got, want)
	}
	if got, want := strings.Join(vcs.commits, ","), "Add tiles: p1-p2/2026-02-09-rgb"; got != want {
		t.Errorf("commits => %s; want %s", got, want)
	}
}

func TestRunAbortsOnInspection(t *testing.T) {
	d, inspector, tiler, vcs, raster, _ := harness(t)
	inspector.err = errors.New("not recognized as a supported file format")

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1", CaptureDate: "2026-02-09"}

	if _, err := d.Run(req); !errors.Is(err, ortho.ErrInvalidRaster) {
		t.Fatalf("Run() => %v; want ErrInvalidRaster", err)
	}

	// Nothing was mutated before validation finished.
	if _, err := os.Stat(filepath.Join(d.RepoRoot, "src")); !os.IsNotExist(err) {
		t.Error("archive tree created despite failed inspection")
	}
	if len(tiler.calls) != 0 || len(vcs.adds) != 0 {
		t.Error("later steps ran despite failed inspection")
	}
}

func TestRunAbortsOnTiler(t *testing.T) {
	d, _, tiler, vcs, raster, _ := harness(t)
	tiler.err = errors.New("gdal2tiles exploded")

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1", CaptureDate: "2026-02-09"}

	if _, err := d.Run(req); !errors.Is(err, ortho.ErrTileGeneration) {
		t.Fatalf("Run() => %v; want ErrTileGeneration", err)
	}

	// The archive survives (no rollback), version control is untouched.
	archive := filepath.Join(d.RepoRoot, "src", "p1", "2026-02-09", "p1-2026-02-09.tif")
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive missing after tiler failure: %v", err)
	}
	if len(vcs.adds) != 0 || len(vcs.commits) != 0 || vcs.pushes != 0 {
		t.Error("version control touched despite failed tiling")
	}
}

func TestRunAbortsOnCommit(t *testing.T) {
	d, _, _, vcs, raster, out := harness(t)
	vcs.commitErr = errors.New("nothing to commit, working tree clean")

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1", CaptureDate: "2026-02-09"}

	if _, err := d.Run(req); !errors.Is(err, ortho.ErrPublish) {
		t.Fatalf("Run() => %v; want ErrPublish", err)
	}

	if vcs.pushes != 0 {
		t.Error("pushed despite failed commit")
	}
	if strings.Contains(out.String(), "{z}/{x}/{y}") {
		t.Error("URL reported despite failed publish")
	}
}

// Re-running the same triple overwrites the archived raster in place.
func TestRunOverwritesArchive(t *testing.T) {
	d, _, _, _, raster, _ := harness(t)

	req := &ortho.DeployRequest{RasterPath: raster, PaddockID: "p1", CaptureDate: "2026-02-09"}

	if _, err := d.Run(req); err != nil {
		t.Fatal(err)
	}

	if err := ioutil.WriteFile(raster, []byte("reprocessed capture"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Run(req); err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(d.RepoRoot, "src", "p1", "2026-02-09", "p1-2026-02-09.tif")
	data, err := ioutil.ReadFile(archive)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "reprocessed capture"; got != want {
		t.Errorf("archive content => %q; want %q", got, want)
	}
}
