// Package catalog resolves table and column identities for the layout tuner.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// TableOIDMask marks ordinal ids that belong to tables.
const TableOIDMask uint32 = 1 << 30

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Table is the identity of a table and its ordered columns.
type Table struct {
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Database string   `json:"database"`
	Columns  []string `json:"columns"`
}

// FullName returns the database qualified name of the table.
func (t Table) FullName() string {
	return fmt.Sprintf("%s.%s", t.Database, t.Name)
}

type name struct {
	table    string
	database string
}

// Catalog keeps track of the known tables.
// It is owned by whoever creates it, there is no process wide instance.
type Catalog struct {
	lock   *sync.RWMutex
	oid    uint32
	tables map[uint32]Table
	names  map[name]uint32
}

// NewCatalog creates a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		lock:   new(sync.RWMutex),
		tables: make(map[uint32]Table),
		names:  make(map[name]uint32),
	}
}

func (c *Catalog) nextOID() uint32 {
	id := c.oid | TableOIDMask
	c.oid++
	return id
}

// Insert registers a new table with the given columns.
func (c *Catalog) Insert(table, database string, columns ...string) (Table, error) {
	if table == "" || database == "" {
		return Table{}, fmt.Errorf("table and database name are required [ %s | %s ]", database, table)
	}
	if len(columns) == 0 {
		return Table{}, fmt.Errorf("table '%s.%s' has no columns", database, table)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	n := name{table: table, database: database}
	if _, ok := c.names[n]; ok {
		return Table{}, fmt.Errorf("table '%s.%s': %w", database, table, ErrDuplicate)
	}
	cc := make([]string, len(columns))
	copy(cc, columns)
	t := Table{
		ID:       c.nextOID(),
		Name:     table,
		Database: database,
		Columns:  cc,
	}
	c.tables[t.ID] = t
	c.names[n] = t.ID
	return t, nil
}

// ByID returns the table with the given id.
func (c *Catalog) ByID(id uint32) (Table, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	t, ok := c.tables[id]
	if !ok {
		return Table{}, fmt.Errorf("table '%d': %w", id, ErrNotFound)
	}
	return t, nil
}

// ByName returns the table with the given name in the given database.
func (c *Catalog) ByName(table, database string) (Table, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	id, ok := c.names[name{table: table, database: database}]
	if !ok {
		return Table{}, fmt.Errorf("table '%s.%s': %w", database, table, ErrNotFound)
	}
	return c.tables[id], nil
}

// Delete removes the table with the given id.
func (c *Catalog) Delete(id uint32) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	t, ok := c.tables[id]
	if !ok {
		return fmt.Errorf("table '%d': %w", id, ErrNotFound)
	}
	delete(c.tables, id)
	delete(c.names, name{table: t.Name, database: t.Database})
	return nil
}

// TablesOf returns all tables of the given database ordered by id.
func (c *Catalog) TablesOf(database string) []Table {
	c.lock.RLock()
	defer c.lock.RUnlock()
	tables := make([]Table, 0)
	for _, t := range c.tables {
		if t.Database == database {
			tables = append(tables, t)
		}
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].ID < tables[j].ID
	})
	return tables
}
