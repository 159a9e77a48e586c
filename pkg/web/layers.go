package web

import (
	"hash/fnv"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Layer is one published tile set in the checkout: a paddock plus the
// {date}[-{variant}] leaf directory under it.
type Layer struct {
	Paddock string
	Leaf    string
}

// Path returns the repo-relative tile directory for the layer.
func (l Layer) Path() string {
	return path.Join("tiles", l.Paddock, l.Leaf)
}

// Name returns the layer name shown to the operator, {paddock}/{leaf}.
func (l Layer) Name() string {
	return l.Paddock + "/" + l.Leaf
}

// Color returns a stable legend hue for the layer, derived from its name so
// the same layer keeps the same color across restarts.
func (l Layer) Color() colorful.Color {
	h := fnv.New32a()
	h.Write([]byte(l.Name()))

	hue := float64(h.Sum32() % 360)
	return colorful.Hsv(hue, 0.55, 0.92)
}

// ListLayers walks tiles/{paddock}/{leaf} under the checkout root and
// returns every layer, sorted by name. A checkout with no tiles directory
// yet is an empty farm, not an error.
func ListLayers(repoRoot string) ([]Layer, error) {
	tilesDir := filepath.Join(repoRoot, "tiles")

	paddocks, err := ioutil.ReadDir(tilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	layers := []Layer{}
	for _, p := range paddocks {
		if !p.IsDir() {
			continue
		}

		leaves, err := ioutil.ReadDir(filepath.Join(tilesDir, p.Name()))
		if err != nil {
			return nil, err
		}

		for _, l := range leaves {
			if !l.IsDir() {
				continue
			}
			layers = append(layers, Layer{Paddock: p.Name(), Leaf: l.Name()})
		}
	}

	sort.Slice(layers, func(i, j int) bool { return layers[i].Name() < layers[j].Name() })

	return layers, nil
}
