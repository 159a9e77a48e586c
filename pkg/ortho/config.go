package ortho

import (
	"os"

	"github.com/joho/godotenv"
)

// defaultBaseURL is the static host the tile repository publishes to. It can
// be overridden with PADMAP_BASE_URL for forks of the tile repo.
const defaultBaseURL = "https://arcadia-farms.github.io/paddock-tiles"

// Config collects everything the commands read from the environment. A .env
// file in the working directory is honored if present.
type Config struct {
	RepoRoot   string // tile repository checkout root
	BaseURL    string // public host prefix for published tiles
	GDALInfo   string // gdalinfo binary
	GDAL2Tiles string // gdal2tiles binary
	Git        string // git binary
	Port       string // preview server port
	NSQD       string // nsqd address for queued deploys
	NSQLookup  string // nsqlookupd host for the worker
}

// LoadConfig reads the PADMAP_* environment variables, applying defaults
// where sensible. Only the worker requires PADMAP_NSQLOOKUP; it checks for
// it itself.
func LoadConfig() *Config {
	godotenv.Load()

	return &Config{
		RepoRoot:   getenv("PADMAP_REPO", "."),
		BaseURL:    getenv("PADMAP_BASE_URL", defaultBaseURL),
		GDALInfo:   getenv("PADMAP_GDALINFO", "gdalinfo"),
		GDAL2Tiles: getenv("PADMAP_GDAL2TILES", "gdal2tiles.py"),
		Git:        getenv("PADMAP_GIT", "git"),
		Port:       getenv("PADMAP_PORT", "8573"),
		NSQD:       getenv("PADMAP_NSQD", "127.0.0.1:4150"),
		NSQLookup:  os.Getenv("PADMAP_NSQLOOKUP"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
