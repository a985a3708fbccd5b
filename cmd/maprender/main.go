package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/export"
	"chosenoffset.com/tilecomp/internal/maprender"
	"chosenoffset.com/tilecomp/internal/mapscan"
	"chosenoffset.com/tilecomp/internal/render/cache"
	ebitenrender "chosenoffset.com/tilecomp/internal/render/ebiten"
	"chosenoffset.com/tilecomp/internal/render/raster"
	"chosenoffset.com/tilecomp/internal/render/terminal"
	"chosenoffset.com/tilecomp/internal/sample"
	"chosenoffset.com/tilecomp/internal/thumbstore"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "maprender"
	app.Usage = "Composite tile maps into images"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"MAPRENDER_CONFIG"},
			Usage:   "path to JSON config",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "render",
			Usage:     "Render a map to PNG",
			ArgsUsage: "MAP",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default <map>.png)"},
				&cli.Float64Flag{Name: "scale", Usage: "scale factor, overrides config"},
				&cli.BoolFlag{Name: "store", Usage: "also save the composite in the thumbnail store"},
			},
			Action: renderCommand,
		},
		{
			Name:      "animate",
			Usage:     "Render a map's tile animations to GIF",
			ArgsUsage: "MAP",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default <map>.gif)"},
				&cli.IntFlag{Name: "frames", Usage: "frame count, overrides config"},
				&cli.IntFlag{Name: "frame-ms", Usage: "milliseconds per frame, overrides config"},
			},
			Action: animateCommand,
		},
		{
			Name:      "preview",
			Usage:     "Show a map in the terminal",
			ArgsUsage: "MAP",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "warm", Usage: "seed the cache from the thumbnail store"},
			},
			Action: previewCommand,
		},
		{
			Name:      "view",
			Usage:     "Open a map in a scrollable window",
			ArgsUsage: "MAP",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "warm", Usage: "seed the cache from the thumbnail store"},
			},
			Action: viewCommand,
		},
		{
			Name:      "sample",
			Usage:     "Write a generated tileset and map",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Value: "sample", Usage: "map name"},
				&cli.IntFlag{Name: "width", Value: 16, Usage: "map width in tiles"},
				&cli.IntFlag{Name: "height", Value: 12, Usage: "map height in tiles"},
				&cli.BoolFlag{Name: "hex", Usage: "generate a hexagonal map"},
			},
			Action: sampleCommand,
		},
		{
			Name:  "thumbs",
			Usage: "Manage the thumbnail store",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List stored composites",
					Action: thumbsListCommand,
				},
				{
					Name:      "build",
					Usage:     "Composite every map under a directory into the store",
					ArgsUsage: "DIRECTORY",
					Action:    thumbsBuildCommand,
				},
				{
					Name:      "clear",
					Usage:     "Remove the stored composites of a map",
					ArgsUsage: "NAME",
					Action:    thumbsClearCommand,
				},
			},
		},
	}

	return app
}

func requireMap(c *cli.Context) {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
}

func outputPath(c *cli.Context, m *tilemap.Map, ext string) string {
	if out := c.String("out"); out != "" {
		return out
	}
	return m.Name + ext
}

func renderCommand(c *cli.Context) error {
	requireMap(c)

	s, err := openSession(c, nil)
	if err != nil {
		return cli.Exit(err, 1)
	}

	img, err := s.composite()
	if err != nil {
		return cli.Exit(err, 1)
	}

	scale := s.cfg.Scale
	if c.IsSet("scale") {
		scale = c.Float64("scale")
	}

	out := outputPath(c, s.m, ".png")
	if err := export.SavePNG(out, export.Scale(img, scale)); err != nil {
		return cli.Exit(err, 1)
	}
	s.logger.Printf("wrote %s", out)

	if c.Bool("store") {
		if err := storeComposite(s); err != nil {
			return cli.Exit(err, 1)
		}
	}
	return nil
}

func storeComposite(s *session) error {
	composite, err := s.renderers.Image(s.m, s.types...)
	if err != nil {
		return err
	}

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.MapKey(s.m.Name, tilemap.RenderTypesOf(s.types...))
	if err := store.Put(key, composite); err != nil {
		return err
	}
	s.logger.Printf("stored %s in %s", key, s.cfg.ThumbnailDB)
	return nil
}

func animateCommand(c *cli.Context) error {
	requireMap(c)

	clock := maprender.FixedClock(0)
	s, err := openSession(c, &clock)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if _, err := s.renderers.ForMap(s.m); err != nil {
		return cli.Exit(err, 1)
	}

	opts := export.AnimationOptions{
		Size:       s.m.PixelSize(),
		Frames:     s.cfg.GIF.Frames,
		FrameDelay: s.cfg.FrameDelay(),
		Background: s.background,
		Colors:     s.cfg.GIF.Colors,
	}
	if c.IsSet("frames") {
		opts.Frames = c.Int("frames")
	}
	if c.IsSet("frame-ms") {
		opts.FrameDelay = time.Duration(c.Int("frame-ms")) * time.Millisecond
	}

	viewport := image.Rectangle{Max: opts.Size}
	out := outputPath(c, s.m, ".gif")
	if err := export.SaveGIF(out, s.frameRenderer(&clock, viewport), opts); err != nil {
		return cli.Exit(err, 1)
	}

	s.logger.Printf("wrote %s (%d frames)", out, opts.Frames)
	return nil
}

// frameRenderer draws the live map at each frame time by moving clock, which
// must be the clock the session's renderers read.
func (s *session) frameRenderer(clock *maprender.FixedClock, viewport image.Rectangle) export.FrameFunc {
	return func(dst *raster.Surface, at time.Duration) {
		*clock = maprender.FixedClock(at)
		if err := s.renderers.RenderViewport(dst, s.m, viewport, s.types...); err != nil {
			s.logger.Printf("failed to render frame at %v: %v", at, err)
		}
	}
}

func warmCache(s *session) {
	store, err := s.openStore()
	if err != nil {
		s.logger.Printf("thumbnail store unavailable: %v", err)
		return
	}
	defer store.Close()

	n, err := store.Warm(s.renderers.Cache(), s.m.Name)
	if err != nil {
		s.logger.Printf("failed to warm cache: %v", err)
		return
	}
	s.logger.Printf("seeded %d composites of %s from %s", n, s.m.Name, s.cfg.ThumbnailDB)
}

func previewCommand(c *cli.Context) error {
	requireMap(c)

	s, err := openSession(c, nil)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.Bool("warm") {
		warmCache(s)
	}

	img, err := s.composite()
	if err != nil {
		return cli.Exit(err, 1)
	}

	screen, err := terminal.NewScreen()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer screen.Fini()

	if err := terminal.NewPreview(screen, img).Run(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func viewCommand(c *cli.Context) error {
	requireMap(c)

	s, err := openSession(c, nil)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if _, err := s.renderers.ForMap(s.m); err != nil {
		return cli.Exit(err, 1)
	}
	if c.Bool("warm") {
		warmCache(s)
	}

	viewer := ebitenrender.NewViewer(s.renderers, s.m, ebitenrender.ViewerConfig{
		Width:       s.cfg.Viewport.Width,
		Height:      s.cfg.Viewport.Height,
		ScrollSpeed: float64(s.cfg.ScrollSpeed),
		Background:  s.background,
		RenderTypes: s.types,
		Reload:      s.reload,
	})
	if err := viewer.Run(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func sampleCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("missing directory", 1)
	}

	mapPath, err := sample.Save(c.Args().First(), sample.Options{
		Name:      c.String("name"),
		Width:     c.Int("width"),
		Height:    c.Int("height"),
		Hexagonal: c.Bool("hex"),
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Println(mapPath)
	return nil
}

func thumbsListCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	store, err := thumbstore.Open(cfg.ThumbnailDB)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, e := range entries {
		fmt.Printf("%s\t%dx%d\n", e.Key, e.Width, e.Height)
	}
	return nil
}

func thumbsBuildCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("missing directory", 1)
	}
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	set, err := cfg.Types()
	if err != nil {
		return cli.Exit(err, 1)
	}

	maps, skipped, err := mapscan.ScanDirectory(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, s := range skipped {
		logger.Printf("skipping %s: %v", s.Path, s.Err)
	}

	store, err := thumbstore.Open(cfg.ThumbnailDB)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer store.Close()

	sheets := assets.NewRegistry()
	renderers := maprender.NewRegistry(maprender.Options{
		Assets:            sheets,
		Logger:            logger,
		SkipAnimatedTiles: !cfg.IncludeAnimatedTiles,
	})

	stored := 0
	for _, entry := range maps {
		dir := cfg.AssetsDir
		if dir == "" {
			dir = filepath.Dir(entry.Path)
		}
		if err := sheets.LoadMapAssets(entry.Map, dir); err != nil {
			logger.Printf("skipping %s: %v", entry.Path, err)
			continue
		}

		img, err := renderers.Image(entry.Map, set.Types()...)
		if err != nil {
			logger.Printf("skipping %s: %v", entry.Path, err)
			continue
		}
		if err := store.Put(cache.MapKey(entry.Name, set), img); err != nil {
			return cli.Exit(err, 1)
		}
		stored++
	}

	logger.Printf("stored %d of %d maps", stored, len(maps))
	return nil
}

func thumbsClearCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("missing map name", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	store, err := thumbstore.Open(cfg.ThumbnailDB)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer store.Close()

	var removed int
	for _, name := range c.Args().Slice() {
		n, err := store.DeleteMap(strings.TrimSpace(name))
		if err != nil {
			return cli.Exit(err, 1)
		}
		removed += n
	}
	newLogger(c).Printf("removed %d composites", removed)
	return nil
}
