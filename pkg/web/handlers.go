package web

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/foolin/goview"
	"github.com/go-chi/chi"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// tileSize is the edge length of the tiles gdal2tiles emits and of the
// placeholder and thumbnail images served here.
const tileSize = 256

func (s *Server) serveIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layers, err := ListLayers(s.repoRoot)
		if err != nil {
			http.Error(w, "listing layers: "+err.Error(), 500)
			return
		}

		rows := make([]goview.M, 0, len(layers))
		for _, l := range layers {
			rows = append(rows, goview.M{
				"name":  l.Name(),
				"path":  l.Path(),
				"color": l.Color().Hex(),
			})
		}

		goview.DefaultConfig.DisableCache = true
		err = goview.Render(w, http.StatusOK, "index.html", goview.M{
			"layers":   rows,
			"tileSize": tileSize,
		})
		if err != nil {
			http.Error(w, "render index: "+err.Error(), 500)
		}
	}
}

// serveTile serves a tile straight off disk. A tile that was excluded by the
// generator (empty area) comes back as a faded solid in the layer's hue so
// the map stays readable instead of showing broken images.
func (s *Server) serveTile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layer := Layer{
			Paddock: chi.URLParam(r, "paddock"),
			Leaf:    chi.URLParam(r, "leaf"),
		}

		z, x, y, err := tileCoords(r)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}

		fpath := filepath.Join(s.repoRoot, "tiles", layer.Paddock, layer.Leaf,
			strconv.Itoa(z), strconv.Itoa(x), strconv.Itoa(y)+".png")

		data, err := ioutil.ReadFile(fpath)
		if err != nil {
			if os.IsNotExist(err) {
				writePNG(w, placeholder(layer))
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if _, err := w.Write(data); err != nil {
			log.Println("[preview] failed to write tile: ", err)
		}
	}
}

// serveThumb renders a small preview for a layer by scaling down the first
// tile found at the layer's lowest generated zoom.
func (s *Server) serveThumb() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layer := Layer{
			Paddock: chi.URLParam(r, "paddock"),
			Leaf:    chi.URLParam(r, "leaf"),
		}

		src, err := s.firstTile(layer)
		if err != nil {
			writePNG(w, placeholder(layer))
			return
		}

		thumb := image.NewNRGBA(image.Rect(0, 0, tileSize/2, tileSize/2))
		draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, src.Bounds(), draw.Src, nil)

		writePNG(w, thumb)
	}
}

// firstTile walks the layer's pyramid and decodes the first PNG at the
// lowest zoom level present.
func (s *Server) firstTile(l Layer) (image.Image, error) {
	dir := filepath.Join(s.repoRoot, "tiles", l.Paddock, l.Leaf)

	zooms, err := sortedNumericDirs(dir)
	if err != nil || len(zooms) == 0 {
		return nil, os.ErrNotExist
	}

	zoomDir := filepath.Join(dir, strconv.Itoa(zooms[0]))
	xs, err := sortedNumericDirs(zoomDir)
	if err != nil || len(xs) == 0 {
		return nil, os.ErrNotExist
	}

	xDir := filepath.Join(zoomDir, strconv.Itoa(xs[0]))
	files, err := ioutil.ReadDir(xDir)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if filepath.Ext(f.Name()) != ".png" {
			continue
		}

		fd, err := os.Open(filepath.Join(xDir, f.Name()))
		if err != nil {
			return nil, err
		}

		img, err := png.Decode(fd)
		fd.Close()
		if err != nil {
			return nil, err
		}

		return img, nil
	}

	return nil, os.ErrNotExist
}

// sortedNumericDirs lists subdirectories whose names are integers, ascending.
func sortedNumericDirs(dir string) ([]int, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	nums := []int{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}

	sort.Ints(nums)
	return nums, nil
}

// tileCoords parses the z/x/y URL parameters.
func tileCoords(r *http.Request) (z, x, y int, err error) {
	z, err = strconv.Atoi(chi.URLParam(r, "z"))
	if err != nil {
		return
	}

	x, err = strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		return
	}

	y, err = strconv.Atoi(chi.URLParam(r, "y"))
	return
}

// placeholder renders a solid tile in a washed-out version of the layer hue.
func placeholder(l Layer) image.Image {
	white := colorful.Color{R: 1, G: 1, B: 1}
	cr, cg, cb := l.Color().BlendLab(white, 0.75).Clamped().RGB255()
	fill := color.NRGBA{R: cr, G: cg, B: cb, A: 0xff}

	img := image.NewNRGBA(image.Rect(0, 0, tileSize, tileSize))
	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			img.Set(x, y, fill)
		}
	}

	return img
}

// writePNG encodes an image and writes it into the ResponseWriter.
func writePNG(w http.ResponseWriter, img image.Image) {
	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, img); err != nil {
		http.Error(w, "Unable to encode image: "+err.Error(), 500)
		return
	}

	b := buffer.Bytes()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))

	if _, err := w.Write(b); err != nil {
		http.Error(w, "Unable to write image to response: "+err.Error(), 500)
		return
	}
}
