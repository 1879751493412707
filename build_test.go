package tabjson_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/tabjson"
)

func mustJSON(t *testing.T, rec *tabjson.Record) string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(data)
}

func TestBuildRecordsNestsSharedPrefix(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords(
		[][]any{{1, "Paris", "75001"}},
		[]string{"id", "addr.city", "addr.zip"},
	)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"id":1,"addr":{"city":"Paris","zip":"75001"}}`, mustJSON(t, records[0]))
	assert.Equal(t, map[string]any{
		"id":   1,
		"addr": map[string]any{"city": "Paris", "zip": "75001"},
	}, records[0].Map())
}

func TestBuildRecordsSkipsEmptyHeader(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords([][]any{{"ignored", 5}}, []string{"", "x"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `{"x":5}`, mustJSON(t, records[0]))
}

func TestBuildRecordsOneRecordPerRow(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		block   [][]any
		headers []string
	}{
		"no rows":        {block: nil, headers: []string{"a"}},
		"empty rows":     {block: [][]any{{}, {}, {}}, headers: []string{"a"}},
		"blank headers":  {block: [][]any{{1}, {2}}, headers: []string{""}},
		"no headers":     {block: [][]any{{1}, {2}}, headers: nil},
		"duplicate rows": {block: [][]any{{1}, {1}, {1}, {1}}, headers: []string{"a"}},
	}
	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			records, err := tabjson.BuildRecords(tt.block, tt.headers)
			require.NoError(t, err)
			assert.Len(t, records, len(tt.block))
		})
	}
}

func TestBuildRecordsPreservesRowOrder(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords([][]any{{"c"}, {"a"}, {"b"}}, []string{"k"})
	require.NoError(t, err)
	var got []any
	for _, rec := range records {
		v, ok := rec.Lookup("k")
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []any{"c", "a", "b"}, got)
}

func TestBuildRecordsMisalignedColumns(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		block   [][]any
		headers []string
		want    string
	}{
		"short header row": {block: [][]any{{1, 2, 3}}, headers: []string{"a"}, want: `{"a":1}`},
		"short data row":   {block: [][]any{{1}}, headers: []string{"a", "b.c"}, want: `{"a":1}`},
		"ragged rows":      {block: [][]any{{1, 2}}, headers: []string{"a", "b", "c"}, want: `{"a":1,"b":2}`},
	}
	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			records, err := tabjson.BuildRecords(tt.block, tt.headers)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, mustJSON(t, records[0]))
		})
	}
}

func TestBuildRecordsSamePathLastWins(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords([][]any{{1, 2, 3}}, []string{"a.b", "x", "a.b"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":3},"x":2}`, mustJSON(t, records[0]))
}

func TestBuildRecordsKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords(
		[][]any{{1, 2, 3, 4}},
		[]string{"z", "a.y", "m", "a.b"},
	)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":2,"b":4},"m":3}`, mustJSON(t, records[0]))
	assert.Equal(t, []string{"z", "a", "m"}, records[0].Keys())
}

func TestBuildRecordsNoCoercion(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords(
		[][]any{{"007", 2.5, true, "", nil}},
		[]string{"code", "price", "active", "note", "missing"},
	)
	require.NoError(t, err)
	assert.Equal(t, `{"code":"007","price":2.5,"active":true,"note":"","missing":null}`, mustJSON(t, records[0]))
}

func TestBuildRecordsFreshTreePerRow(t *testing.T) {
	t.Parallel()
	records, err := tabjson.BuildRecords([][]any{{1}, {1}}, []string{"a.b"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotSame(t, records[0], records[1])

	n0, _ := records[0].Get("a")
	n1, _ := records[1].Get("a")
	assert.NotSame(t, n0.Record, n1.Record)

	n0.Record.Set("extra", tabjson.Leaf("x"))
	assert.Equal(t, `{"a":{"b":1}}`, mustJSON(t, records[1]))
}

func TestBuildRecordsDeterministic(t *testing.T) {
	t.Parallel()
	block := [][]any{
		{1, "Ada", "London", "NW1", true},
		{2, "Grace", "Arlington", "22201", false},
	}
	headers := []string{"id", "name.first", "addr.city", "addr.zip", "flags.active"}

	first, err := tabjson.BuildRecords(block, headers)
	require.NoError(t, err)
	for n := 0; n < 20; n++ {
		again, err := tabjson.BuildRecords(block, headers)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, mustJSON(t, first[i]), mustJSON(t, again[i]))
			assert.Equal(t, first[i].Map(), again[i].Map())
		}
	}
}

func TestBuildRecordsRejectsConflict(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		headers []string
		want    tabjson.ConflictError
	}{
		"scalar then object": {
			headers: []string{"a", "a.b"},
			want:    tabjson.ConflictError{Column: 0, Header: "a", OtherColumn: 1, OtherHeader: "a.b"},
		},
		"object then scalar": {
			headers: []string{"x", "a.b.c", "", "a.b"},
			want:    tabjson.ConflictError{Column: 1, Header: "a.b.c", OtherColumn: 3, OtherHeader: "a.b"},
		},
	}
	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			records, err := tabjson.BuildRecords([][]any{{1, 2, 3, 4}}, tt.headers)
			require.ErrorIs(t, err, tabjson.ErrConflictingKeyPath)
			assert.Nil(t, records)

			var cerr *tabjson.ConflictError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.want, *cerr)
		})
	}
}

func TestBuildRecordsSharedPrefixIsNotConflict(t *testing.T) {
	t.Parallel()
	_, err := tabjson.BuildRecords([][]any{{1, 2}}, []string{"ab", "a.b"})
	assert.NoError(t, err)
}

func TestBuilderLastWins(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		headers []string
		row     []any
		want    string
	}{
		"object replaces scalar": {
			headers: []string{"a", "a.b"},
			row:     []any{1, 2},
			want:    `{"a":{"b":2}}`,
		},
		"scalar replaces object": {
			headers: []string{"a.b", "a"},
			row:     []any{1, 2},
			want:    `{"a":2}`,
		},
		"flip twice keeps position": {
			headers: []string{"a.b", "z", "a", "a.c"},
			row:     []any{1, 2, 3, 4},
			want:    `{"a":{"c":4},"z":2}`,
		},
	}
	b := tabjson.Builder{Conflict: tabjson.ConflictLastWins}
	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			records, err := b.Build([][]any{tt.row}, tt.headers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustJSON(t, records[0]))
		})
	}
}

func TestBuildRecordsInvalidHeader(t *testing.T) {
	t.Parallel()
	_, err := tabjson.BuildRecords([][]any{{1, 2}}, []string{"ok", "not ok"})
	require.ErrorIs(t, err, tabjson.ErrInvalidKeyPath)

	var herr *tabjson.HeaderError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 1, herr.Column)
}

func TestParseConflictPolicy(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		want    tabjson.ConflictPolicy
		wantErr require.ErrorAssertionFunc
	}{
		"reject":    {input: "reject", want: tabjson.ConflictReject, wantErr: require.NoError},
		"last-wins": {input: "last-wins", want: tabjson.ConflictLastWins, wantErr: require.NoError},
		"unknown":   {input: "first-wins", wantErr: require.Error},
		"empty":     {input: "", wantErr: require.Error},
	}
	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tabjson.ParseConflictPolicy(tt.input)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictPolicyString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "reject", tabjson.ConflictReject.String())
	assert.Equal(t, "last-wins", tabjson.ConflictLastWins.String())
	assert.Equal(t, "ConflictPolicy(9)", tabjson.ConflictPolicy(9).String())
}

func TestParseConflictPolicyUnknownIsSentinel(t *testing.T) {
	t.Parallel()
	_, err := tabjson.ParseConflictPolicy("nope")
	assert.ErrorIs(t, err, tabjson.ErrUnknownConflictPolicy)
}
