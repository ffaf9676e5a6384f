// Package tuner owns the clusterers of the tracked tables and turns their knowledge into tile layouts.
package tuner

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/drakos74/tile-brain/infra/config"
	"github.com/drakos74/tile-brain/internal/brain"
	"github.com/drakos74/tile-brain/internal/buffer"
	"github.com/drakos74/tile-brain/internal/catalog"
	tilemath "github.com/drakos74/tile-brain/internal/math"
	"github.com/drakos74/tile-brain/internal/metrics"
	"github.com/drakos74/tile-brain/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const label = "clusterer"

var ErrNotTracked = errors.New("table not tracked")

// Layout is the grouping of a table's columns into tiles.
type Layout struct {
	Table catalog.Table `json:"table"`
	// Columns maps every column ordinal to its tile.
	Columns map[int]int `json:"columns"`
	// Tiles lists the column names of every tile ordered by column ordinal.
	Tiles map[int][]string `json:"tiles"`
}

// Snapshot is the persisted form of a table's clusterer.
type Snapshot struct {
	Run   string      `json:"run"`
	Table uint32      `json:"table"`
	State brain.State `json:"state"`
}

type tracker struct {
	table     catalog.Table
	clusterer *brain.Clusterer
	access    *buffer.AccessCollector
}

// Tuner feeds the access samples of the tracked tables to their clusterers.
// All calls are serialised, which makes the tuner the single owner of the clusterers.
type Tuner struct {
	id       string
	lock     *sync.Mutex
	catalog  *catalog.Catalog
	cfg      config.Brain
	store    storage.Persistence
	seeder   brain.Seeder
	metrics  *metrics.Metrics
	trackers map[uint32]*tracker
}

// New creates a new tuner.
func New(cat *catalog.Catalog, cfg config.Brain, store storage.Persistence, seeder brain.Seeder, m *metrics.Metrics) *Tuner {
	if store == nil {
		store = storage.NewVoidStorage()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Tuner{
		id:       uuid.New().String(),
		lock:     new(sync.Mutex),
		catalog:  cat,
		cfg:      cfg,
		store:    store,
		seeder:   seeder,
		metrics:  m,
		trackers: make(map[uint32]*tracker),
	}
}

// ID returns the unique id of this tuner run.
func (t *Tuner) ID() string {
	return t.id
}

func key(table catalog.Table) storage.Key {
	return storage.Key{
		Pair:  table.FullName(),
		Label: label,
	}
}

// Track starts learning the access patterns of the given table.
// A previously saved clusterer for the table is picked up, if it matches the table's columns.
func (t *Tuner) Track(id uint32) error {
	table, err := t.catalog.ByID(id)
	if err != nil {
		return fmt.Errorf("could not track table: %w", err)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.trackers[id]; ok {
		return nil
	}

	clusterer, err := t.restore(table)
	if err != nil {
		clusterer, err = brain.NewClustererWith(t.cfg.Clusters, len(table.Columns), t.cfg.LearningRate, t.seeder)
		if err != nil {
			return fmt.Errorf("could not create clusterer for '%s': %w", table.FullName(), err)
		}
	}

	t.trackers[id] = &tracker{
		table:     table,
		clusterer: clusterer,
		access:    buffer.NewAccessCollector(len(table.Columns), tilemath.EnabledThreshold),
	}
	log.Info().
		Str("run", t.id).
		Str("table", table.FullName()).
		Int("columns", len(table.Columns)).
		Int("clusters", clusterer.ClusterCount()).
		Int("samples", clusterer.SampleCount()).
		Msg("tracking table")
	return nil
}

func (t *Tuner) restore(table catalog.Table) (*brain.Clusterer, error) {
	var snapshot Snapshot
	if err := t.store.Load(key(table), &snapshot); err != nil {
		if !errors.Is(err, storage.NotFoundErr) {
			log.Warn().Err(err).Str("table", table.FullName()).Msg("could not load clusterer")
		}
		return nil, err
	}
	if snapshot.State.Columns != len(table.Columns) {
		err := fmt.Errorf("snapshot has %d columns instead of %d", snapshot.State.Columns, len(table.Columns))
		log.Warn().Err(err).Str("table", table.FullName()).Msg("discarding clusterer")
		return nil, err
	}
	clusterer, err := brain.Restore(snapshot.State)
	if err != nil {
		log.Warn().Err(err).Str("table", table.FullName()).Msg("discarding clusterer")
		return nil, err
	}
	log.Info().
		Str("run", snapshot.Run).
		Str("table", table.FullName()).
		Msg("restored clusterer")
	return clusterer, nil
}

func (t *Tuner) tracker(id uint32) (*tracker, error) {
	tr, ok := t.trackers[id]
	if !ok {
		return nil, fmt.Errorf("table '%d': %w", id, ErrNotTracked)
	}
	return tr, nil
}

// Observe feeds an access sample of the given table to its clusterer.
// It returns the cluster the sample was assigned to.
func (t *Tuner) Observe(id uint32, sample tilemath.Sample) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	tr, err := t.tracker(id)
	if err != nil {
		return 0, err
	}

	cluster, err := tr.clusterer.ProcessSample(sample)
	if err != nil {
		return 0, fmt.Errorf("could not process sample for '%s': %w", tr.table.FullName(), err)
	}
	if err := tr.access.Push(sample...); err != nil {
		return 0, fmt.Errorf("could not track access for '%s': %w", tr.table.FullName(), err)
	}

	name := tr.table.FullName()
	t.metrics.Sample(name, cluster)
	for _, u := range tr.clusterer.Usage() {
		t.metrics.Fraction(name, u.Cluster, u.Fraction)
	}
	return cluster, nil
}

// Layout computes the tile layout of the given table.
func (t *Tuner) Layout(id uint32, tiles int) (Layout, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	tr, err := t.tracker(id)
	if err != nil {
		return Layout{}, err
	}

	mapping, err := tr.clusterer.Partitioning(tiles)
	t.metrics.Partitioning(tr.table.FullName(), err)
	if err != nil {
		return Layout{}, fmt.Errorf("could not partition '%s': %w", tr.table.FullName(), err)
	}

	columns := make([]int, 0, len(mapping))
	for column := range mapping {
		columns = append(columns, column)
	}
	sort.Ints(columns)

	layout := Layout{
		Table:   tr.table,
		Columns: mapping,
		Tiles:   make(map[int][]string),
	}
	for _, column := range columns {
		tile := mapping[column]
		layout.Tiles[tile] = append(layout.Tiles[tile], tr.table.Columns[column])
	}
	log.Debug().
		Str("table", tr.table.FullName()).
		Int("tiles", tiles).
		Int("used", len(layout.Tiles)).
		Msg("computed layout")
	return layout, nil
}

// Save persists the clusterer of the given table.
func (t *Tuner) Save(id uint32) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	tr, err := t.tracker(id)
	if err != nil {
		return err
	}

	snapshot := Snapshot{
		Run:   t.id,
		Table: id,
		State: tr.clusterer.Snapshot(),
	}
	if err := t.store.Store(key(tr.table), snapshot); err != nil {
		log.Error().Err(err).Str("table", tr.table.FullName()).Msg("could not save clusterer")
		return fmt.Errorf("could not save clusterer for '%s': %w", tr.table.FullName(), err)
	}
	return nil
}

// Dump renders the clusters of the given table.
func (t *Tuner) Dump(id uint32) (string, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	tr, err := t.tracker(id)
	if err != nil {
		return "", err
	}
	return tr.clusterer.String(), nil
}

// Access returns the access statistics of every column of the given table.
func (t *Tuner) Access(id uint32) ([]buffer.Access, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	tr, err := t.tracker(id)
	if err != nil {
		return nil, err
	}
	return tr.access.Columns(), nil
}
