package dummydb

import (
	"sync"

	"github.com/trezcool/studyflow/core"
)

type (
	// DB is an in-memory record backend: one table per collection, ids assigned per collection.
	DB struct {
		mu     sync.Mutex
		tables map[string]*table
	}

	table struct {
		sync.RWMutex
		pkCount int
		rows    map[int]core.Record
	}
)

func Open() *DB {
	return &DB{tables: make(map[string]*table)}
}

func (db *DB) table(collection string) *table {
	db.mu.Lock()
	defer db.mu.Unlock()

	tbl, ok := db.tables[collection]
	if !ok {
		tbl = &table{rows: make(map[int]core.Record)}
		db.tables[collection] = tbl
	}
	return tbl
}

func (tbl *table) all() []core.Record {
	recs := make([]core.Record, 0, len(tbl.rows))
	for _, rec := range tbl.rows {
		recs = append(recs, copyRecord(rec))
	}
	return recs
}

func copyRecord(rec core.Record) core.Record {
	cp := make(core.Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}
