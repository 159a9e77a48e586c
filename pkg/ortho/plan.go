package ortho

import "path"

// StoragePlan is the canonical on-disk layout for one deploy. It is a pure
// function of the DeployRequest: the same (paddock, date, variant) triple
// always resolves to the same paths, and any differing field resolves to
// different paths. Paths are slash-separated and relative to the repository
// checkout root.
type StoragePlan struct {
	ArchiveFileName string // {paddock}-{date}[-{variant}].tif
	ArchiveDir      string // src/{paddock}/{date}
	TileDir         string // tiles/{paddock}/{date}[-{variant}]
}

// PlanStorage derives the storage layout for a validated request.
func PlanStorage(r *DeployRequest) StoragePlan {
	return StoragePlan{
		ArchiveFileName: r.PaddockID + "-" + r.leaf() + ".tif",
		ArchiveDir:      path.Join("src", r.PaddockID, r.CaptureDate),
		TileDir:         path.Join("tiles", r.PaddockID, r.leaf()),
	}
}

// ArchivePath returns the repo-relative path of the archived raster.
func (p StoragePlan) ArchivePath() string {
	return path.Join(p.ArchiveDir, p.ArchiveFileName)
}

// TileURL returns the public XYZ URL template for the tile set. The {z},
// {x} and {y} placeholders are literal; map clients substitute them.
func (p StoragePlan) TileURL(baseURL string) string {
	return baseURL + "/" + p.TileDir + "/{z}/{x}/{y}.png"
}
