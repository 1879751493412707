package tabjson

import "context"

// MultiSource concatenates the tables of several sources in order. The first
// failing source stops the read.
type MultiSource []Source

// Tables reads every source in order.
func (m MultiSource) Tables(ctx context.Context) ([]Table, error) {
	var all []Table
	for _, src := range m {
		tables, err := src.Tables(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, tables...)
	}
	return all, nil
}

// StaticSource serves a fixed set of tables.
type StaticSource []Table

// Tables returns the tables.
func (s StaticSource) Tables(context.Context) ([]Table, error) {
	return s, nil
}
