package ortho

import (
	"fmt"
	"os"
	"regexp"
)

// Variants accepted as the optional fourth argument. An omitted variant is a
// valid state of its own, represented as the empty string.
const (
	VariantRGB = "rgb"
	VariantRaw = "raw"
)

var (
	paddockRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// DeployRequest describes a single orthophoto deploy. It is built once per
// invocation from the positional arguments and never mutated afterwards.
type DeployRequest struct {
	RasterPath  string `json:"raster"`
	PaddockID   string `json:"paddock"`
	CaptureDate string `json:"date"`
	Variant     string `json:"variant,omitempty"`
}

// ParseArgs validates raw positional arguments and builds a DeployRequest.
// Arguments are <geotiff-path> <paddock-name> <date> [variant].
func ParseArgs(args []string) (*DeployRequest, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w: expected 3 or 4 arguments, got %d", ErrUsage, len(args))
	}

	req := &DeployRequest{
		RasterPath:  args[0],
		PaddockID:   args[1],
		CaptureDate: args[2],
	}
	if len(args) == 4 {
		req.Variant = args[3]
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// A present variant must be exact: an empty fourth argument is rejected
	// rather than treated as "no variant".
	if len(args) == 4 && req.Variant == "" {
		return nil, fmt.Errorf("%w: variant given but empty", ErrInvalidVariant)
	}

	return req, nil
}

// Validate checks the request fields. It is called on freshly parsed
// arguments and again by the worker on requests that arrive over the queue.
func (r *DeployRequest) Validate() error {
	info, err := os.Stat(r.RasterPath)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, r.RasterPath)
	}

	if !paddockRe.MatchString(r.PaddockID) {
		return fmt.Errorf("%w: %q is not a kebab-case paddock name", ErrInvalidName, r.PaddockID)
	}

	// Token shape only: "2026-13-40" passes. Calendar validity is not
	// checked at this layer.
	if !dateRe.MatchString(r.CaptureDate) {
		return fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, r.CaptureDate)
	}

	if r.Variant != "" && r.Variant != VariantRGB && r.Variant != VariantRaw {
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidVariant, r.Variant, VariantRGB, VariantRaw)
	}

	return nil
}

// Layer returns the published layer name, {paddock}/{date}[-{variant}],
// which is also what the commit message and tile URL are keyed on.
func (r *DeployRequest) Layer() string {
	return r.PaddockID + "/" + r.leaf()
}

// leaf is the last path segment shared by the tile directory and the archive
// file stem: {date} or {date}-{variant}.
func (r *DeployRequest) leaf() string {
	if r.Variant == "" {
		return r.CaptureDate
	}
	return r.CaptureDate + "-" + r.Variant
}
