// Package source implements the external data-source adapters the
// engine reads from: CSV and Parquet files loaded wholesale into
// memory, and a SQLite-backed source that can execute a pushed-down
// query itself. Each adapter advertises a splitter.Capability so
// cmd/qcat can call splitter.Split and run only the completion half
// through engine.Execute.
package source

import (
	"github.com/google/uuid"

	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/splitter"
	"github.com/brinkdata/qengine/table"
)

// Source is anything that can advertise a capability tier and produce a
// table for the data-source half of a split query. dataSourceQuery is
// nil when splitter.Split pushed nothing down (Capability() == None);
// implementations that cannot push anything down ignore it and always
// return their full table.
type Source interface {
	// Capability reports the tier this source advertises to
	// splitter.Split.
	Capability() splitter.Capability

	// Columns describes the source's schema, independent of any query.
	Columns() ([]table.ColumnDescription, error)

	// Load runs dataSourceQuery (or, if nil, no pushdown at all) and
	// returns the resulting table.
	Load(dataSourceQuery *qlang.Query) (*table.Table, error)
}

// newSourceID generates the id a Load implementation tags onto the
// table it produces, so a run's logs can correlate a result back to
// the source that produced it.
func newSourceID() string {
	return uuid.New().String()
}
