package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/config"
	"chosenoffset.com/tilecomp/internal/maprender"
	"chosenoffset.com/tilecomp/internal/render/raster"
	"chosenoffset.com/tilecomp/internal/thumbstore"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// session is the state every subcommand needs: the config, a logger, the
// loaded map with its assets and a compositor registry.
type session struct {
	cfg        *config.Config
	logger     *log.Logger
	mapPath    string
	m          *tilemap.Map
	assets     *assets.Registry
	renderers  *maprender.Registry
	types      []tilemap.RenderType
	background color.Color
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if c.String("config") == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(c.String("config"))
}

// openSession loads the map named by the first argument. clock may be nil.
func openSession(c *cli.Context, clock maprender.Clock) (*session, error) {
	if c.NArg() < 1 {
		return nil, fmt.Errorf("missing map file")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	set, err := cfg.Types()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:        cfg,
		logger:     newLogger(c),
		mapPath:    c.Args().First(),
		assets:     assets.NewRegistry(),
		types:      set.Types(),
		background: bg,
	}

	if err := s.load(false); err != nil {
		return nil, err
	}

	s.renderers = maprender.NewRegistry(maprender.Options{
		Assets:            s.assets,
		Clock:             clock,
		Logger:            s.logger,
		SkipAnimatedTiles: !cfg.IncludeAnimatedTiles,
	})
	return s, nil
}

// load reads the map file and its assets. Unless fresh is set, assets that
// are already registered are kept.
func (s *session) load(fresh bool) error {
	m, err := tilemap.LoadMap(s.mapPath)
	if err != nil {
		return err
	}

	dir := s.cfg.AssetsDir
	if dir == "" {
		dir = filepath.Dir(s.mapPath)
	}
	loadAssets := s.assets.LoadMapAssets
	if fresh {
		loadAssets = s.assets.ReloadMapAssets
	}
	if err := loadAssets(m, dir); err != nil {
		return fmt.Errorf("failed to load assets of %s: %w", m.Name, err)
	}

	s.logger.Printf("loaded map %s (%s, %dx%d, %d layers)", m.Name, m.Orientation, m.Width, m.Height, len(m.Layers))
	s.m = m
	return nil
}

// reload rereads the map and every asset it uses from disk.
func (s *session) reload() (*tilemap.Map, error) {
	if err := s.load(true); err != nil {
		return nil, err
	}
	return s.m, nil
}

// composite returns the whole-map image on the configured background.
func (s *session) composite() (image.Image, error) {
	size := s.m.PixelSize()
	dst := raster.New(size.X, size.Y)
	if s.background != nil {
		dst.Fill(s.background)
	}
	if err := s.renderers.Render(dst, s.m, s.types...); err != nil {
		return nil, err
	}
	return dst.Image(), nil
}

func (s *session) openStore() (*thumbstore.Store, error) {
	return thumbstore.Open(s.cfg.ThumbnailDB)
}
