package tabjson

import (
	"fmt"
	"slices"
)

// ConflictPolicy decides what happens when one header is a strict prefix of
// another, such as "a" and "a.b".
type ConflictPolicy int

const (
	// ConflictReject fails the build with a *ConflictError.
	ConflictReject ConflictPolicy = iota
	// ConflictLastWins lets the column further right replace whatever an
	// earlier column put at the shared position.
	ConflictLastWins
)

var conflictPolicyNames = map[ConflictPolicy]string{
	ConflictReject:   "reject",
	ConflictLastWins: "last-wins",
}

// String returns the policy name.
func (p ConflictPolicy) String() string {
	if s, ok := conflictPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("ConflictPolicy(%d)", int(p))
}

// ParseConflictPolicy parses "reject" or "last-wins".
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	for p, name := range conflictPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConflictPolicy, s)
}

// ConflictError reports two headers that nest incompatibly: the shorter path
// would be a scalar where the longer one needs an object.
type ConflictError struct {
	Column      int
	Header      string
	OtherColumn int
	OtherHeader string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: column %d %q and column %d %q",
		ErrConflictingKeyPath, e.Column, e.Header, e.OtherColumn, e.OtherHeader)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingKeyPath }

// Builder turns table rows into records.
// The zero value rejects conflicting headers.
type Builder struct {
	Conflict ConflictPolicy
}

// BuildRecords builds one record per row of block using headers as key
// paths. It rejects conflicting headers; see [Builder] for the alternative.
func BuildRecords(block [][]any, headers []string) ([]*Record, error) {
	return Builder{}.Build(block, headers)
}

type column struct {
	index  int
	header string
	path   []string
}

// Build builds one record per row of block. Empty headers skip their column.
// Cells past the end of headers, and headers past the end of a row, are
// ignored. Columns are applied left to right, so a later column with the same
// full path overwrites an earlier one.
func (b Builder) Build(block [][]any, headers []string) ([]*Record, error) {
	cols, err := parseColumns(headers)
	if err != nil {
		return nil, err
	}
	if b.Conflict == ConflictReject {
		if err := checkConflicts(cols); err != nil {
			return nil, err
		}
	}
	out := make([]*Record, len(block))
	for i, row := range block {
		out[i] = buildRow(row, cols)
	}
	return out, nil
}

func parseColumns(headers []string) ([]column, error) {
	var cols []column
	for i, h := range headers {
		if h == "" {
			continue
		}
		path, err := SplitKeyPath(h)
		if err != nil {
			return nil, &HeaderError{Column: i, Header: h, Err: ErrInvalidKeyPath}
		}
		cols = append(cols, column{index: i, header: h, path: path})
	}
	return cols, nil
}

func checkConflicts(cols []column) error {
	for i, a := range cols {
		for _, b := range cols[i+1:] {
			if isStrictPrefix(a.path, b.path) || isStrictPrefix(b.path, a.path) {
				return &ConflictError{
					Column:      a.index,
					Header:      a.header,
					OtherColumn: b.index,
					OtherHeader: b.header,
				}
			}
		}
	}
	return nil
}

func isStrictPrefix(prefix, path []string) bool {
	return len(prefix) < len(path) && slices.Equal(prefix, path[:len(prefix)])
}

func buildRow(row []any, cols []column) *Record {
	rec := NewRecord()
	for _, c := range cols {
		if c.index >= len(row) {
			break
		}
		place(rec, c.path, row[c.index])
	}
	return rec
}

func place(rec *Record, path []string, v any) {
	cur := rec
	for _, seg := range path[:len(path)-1] {
		n, ok := cur.Get(seg)
		if !ok || !n.IsBranch() {
			n = Branch(nil)
			cur.Set(seg, n)
		}
		cur = n.Record
	}
	cur.Set(path[len(path)-1], Leaf(v))
}
