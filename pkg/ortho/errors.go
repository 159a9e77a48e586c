package ortho

import "errors"

// One sentinel per failure kind in the deploy pipeline. Every failure exits
// the process with status 1; the kinds exist so callers can branch on the
// cause without parsing messages.
var (
	ErrUsage          = errors.New("usage")
	ErrFileNotFound   = errors.New("raster not found")
	ErrInvalidName    = errors.New("invalid paddock name")
	ErrInvalidDate    = errors.New("invalid capture date")
	ErrInvalidVariant = errors.New("invalid variant")
	ErrInvalidRaster  = errors.New("raster failed inspection")
	ErrArchive        = errors.New("archive failed")
	ErrTileGeneration = errors.New("tile generation failed")
	ErrPublish        = errors.New("publish failed")
)
