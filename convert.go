package tabjson

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Table is one named header row plus the rows beneath it, as handed over by a
// [Source]. Cell values are scalars: string, float64, bool, or "" for empty.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Result is the outcome of converting one table. An invalid table has
// Rows == 0, no Lines, no Records, and Reason explaining why.
type Result struct {
	Name    string
	Valid   bool
	Rows    int
	Lines   []string
	Records []*Record
	Reason  error
}

// Source supplies the tables to convert.
type Source interface {
	Tables(ctx context.Context) ([]Table, error)
}

// Sink receives one result per table, in source order.
type Sink interface {
	WriteResult(ctx context.Context, r Result) error
}

// Committer is implemented by sinks that buffer output. Commit is called
// once after every result was written.
type Committer interface {
	Commit(ctx context.Context) error
}

// Converter runs the table to record conversion. The zero value rejects
// conflicting headers, uses one worker per CPU, and logs to slog.Default().
type Converter struct {
	Conflict ConflictPolicy
	Workers  int
	Logger   *slog.Logger
}

// Convert converts a single table with the default [Converter].
func Convert(t Table) Result {
	return Converter{}.Convert(t)
}

// Convert validates the header row, builds the records, and formats them.
// Header problems mark the result invalid; they are never returned as errors.
func (c Converter) Convert(t Table) Result {
	res := Result{Name: t.Name}
	if err := ValidateHeaderRow(t.Headers); err != nil {
		res.Reason = err
		return res
	}
	records, err := Builder{Conflict: c.Conflict}.Build(t.Rows, t.Headers)
	if err != nil {
		res.Reason = err
		return res
	}
	lines, err := FormatLines(records)
	if err != nil {
		res.Reason = err
		return res
	}
	res.Valid = true
	res.Rows = len(records)
	res.Records = records
	res.Lines = lines
	return res
}

// ConvertAll converts tables concurrently and returns results in input order.
// The only error is the context's.
func (c Converter) ConvertAll(ctx context.Context, tables []Table) ([]Result, error) {
	results := make([]Result, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())
	for i, t := range tables {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Convert(t)
			c.logResult(results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run reads every table from src, converts them all, then writes the results
// to sink in source order. Nothing reaches the sink until every table is
// converted. Source failures wrap [ErrSourceUnavailable]; sink failures wrap
// [ErrSinkWrite]. Invalid tables are written like any other result.
func (c Converter) Run(ctx context.Context, src Source, sink Sink) ([]Result, error) {
	tables, err := src.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	results, err := c.ConvertAll(ctx, tables)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if err := sink.WriteResult(ctx, res); err != nil {
			return results, fmt.Errorf("%w: table %q: %w", ErrSinkWrite, res.Name, err)
		}
	}
	if cm, ok := sink.(Committer); ok {
		if err := cm.Commit(ctx); err != nil {
			return results, fmt.Errorf("%w: %w", ErrSinkWrite, err)
		}
	}
	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
	}
	c.logger().Info("conversion finished", "tables", len(results), "invalid", invalid)
	return results, nil
}

func (c Converter) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Converter) logResult(res Result) {
	if res.Valid {
		c.logger().Debug("table converted", "table", res.Name, "rows", res.Rows)
		return
	}
	c.logger().Warn("table skipped", "table", res.Name, "reason", res.Reason)
}
