package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/drakos74/tile-brain/infra/config"
	"github.com/drakos74/tile-brain/internal/brain"
	"github.com/drakos74/tile-brain/internal/catalog"
	"github.com/drakos74/tile-brain/internal/metrics"
	"github.com/drakos74/tile-brain/internal/storage"
	"github.com/drakos74/tile-brain/internal/storage/file/json"
	"github.com/drakos74/tile-brain/internal/tuner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type options struct {
	config  string
	samples string
	table   string
	db      string
	tiles   int
	metrics string
	store   string
	debug   bool
}

func parse(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("tile-brain", flag.ContinueOnError)
	fs.StringVar(&opts.config, "config", "", "json config file, defaults are used if empty")
	fs.StringVar(&opts.samples, "samples", "", "csv file with the column names as header and one sample per line")
	fs.StringVar(&opts.table, "table", "table", "table name")
	fs.StringVar(&opts.db, "db", "default", "database name")
	fs.IntVar(&opts.tiles, "tiles", 0, "number of tiles, overrides the config if positive")
	fs.StringVar(&opts.metrics, "metrics", "", "address to serve the metrics on after learning, e.g. ':6021'")
	fs.StringVar(&opts.store, "store", "", "directory to keep the clusterer state in")
	fs.BoolVar(&opts.debug, "debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.samples == "" {
		return options{}, errors.New("samples file is required")
	}
	return opts, nil
}

func main() {
	opts, err := parse(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}
	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	m := metrics.New()
	if err := run(opts, m, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("could not compute layout")
	}

	if opts.metrics != "" {
		http.Handle("/metrics", m.Handler())
		log.Info().Str("address", opts.metrics).Msg("serving metrics")
		if err := http.ListenAndServe(opts.metrics, nil); err != nil {
			log.Fatal().Err(err).Msg("metrics server stopped")
		}
	}
}

func run(opts options, m *metrics.Metrics, out io.Writer) error {
	cfg := config.DefaultBrain()
	if opts.config != "" {
		c, err := config.LoadBrain(opts.config)
		if err != nil {
			return err
		}
		cfg = c
	}
	if opts.tiles > 0 {
		cfg.Tiles = opts.tiles
	}

	f, err := os.Open(opts.samples)
	if err != nil {
		return fmt.Errorf("could not open samples: %w", err)
	}
	defer f.Close()

	columns, samples, err := readSamples(f)
	if err != nil {
		return err
	}

	cat := catalog.NewCatalog()
	table, err := cat.Insert(opts.table, opts.db, columns...)
	if err != nil {
		return err
	}

	var store storage.Persistence = storage.NewVoidStorage()
	if opts.store != "" {
		store = json.NewJsonBlobAt(opts.store, "brain", opts.db, opts.debug)
	}

	t := tuner.New(cat, cfg, store, brain.RandomSeeds(rand.NewSource(cfg.Seed), cfg.Scale), m)
	if err := t.Track(table.ID); err != nil {
		return err
	}

	for i, s := range samples {
		if _, err := t.Observe(table.ID, s); err != nil {
			return fmt.Errorf("sample %d: %w", i+1, err)
		}
	}
	log.Info().
		Str("table", table.FullName()).
		Int("samples", len(samples)).
		Msg("processed samples")

	if err := t.Save(table.ID); err != nil {
		return err
	}

	dump, err := t.Dump(table.ID)
	if err != nil {
		return err
	}
	layout, err := t.Layout(table.ID, cfg.Tiles)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "clusters of %s\n%s", table.FullName(), dump)
	fmt.Fprintf(out, "layout of %s in %d tiles\n", table.FullName(), cfg.Tiles)
	tiles := make([]int, 0, len(layout.Tiles))
	for tile := range layout.Tiles {
		tiles = append(tiles, tile)
	}
	sort.Ints(tiles)
	for _, tile := range tiles {
		fmt.Fprintf(out, "%d : %s\n", tile, strings.Join(layout.Tiles[tile], ","))
	}
	return nil
}
