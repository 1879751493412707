package tabjson_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/tabjson"
)

func sampleRecord(t *testing.T) *tabjson.Record {
	t.Helper()
	records, err := tabjson.BuildRecords(
		[][]any{{7, "Lyon", 45.76, "<b>&"}},
		[]string{"id", "addr.city", "addr.geo.lat", "note"},
	)
	require.NoError(t, err)
	return records[0]
}

func TestRecordLookup(t *testing.T) {
	t.Parallel()
	rec := sampleRecord(t)

	v, ok := rec.Lookup("addr", "geo", "lat")
	require.True(t, ok)
	assert.Equal(t, 45.76, v)

	v, ok = rec.Lookup("addr")
	require.True(t, ok)
	sub, isRecord := v.(*tabjson.Record)
	require.True(t, isRecord)
	assert.Equal(t, []string{"city", "geo"}, sub.Keys())

	_, ok = rec.Lookup("addr", "missing")
	assert.False(t, ok)

	_, ok = rec.Lookup("id", "below-leaf")
	assert.False(t, ok)

	v, ok = rec.Lookup()
	require.True(t, ok)
	assert.Same(t, rec, v)
}

func TestRecordGetAndLen(t *testing.T) {
	t.Parallel()
	rec := sampleRecord(t)
	assert.Equal(t, 3, rec.Len())

	n, ok := rec.Get("addr")
	require.True(t, ok)
	assert.True(t, n.IsBranch())

	n, ok = rec.Get("id")
	require.True(t, ok)
	assert.False(t, n.IsBranch())
	assert.Equal(t, 7, n.Value)

	_, ok = rec.Get("nope")
	assert.False(t, ok)
}

func TestRecordKeysIsACopy(t *testing.T) {
	t.Parallel()
	rec := sampleRecord(t)
	keys := rec.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"id", "addr", "note"}, rec.Keys())
}

func TestRecordSetKeepsPosition(t *testing.T) {
	t.Parallel()
	rec := tabjson.NewRecord()
	rec.Set("a", tabjson.Leaf(1))
	rec.Set("b", tabjson.Leaf(2))
	rec.Set("a", tabjson.Leaf(3))

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, string(data))
}

func TestRecordSetNilNodeStoresNull(t *testing.T) {
	t.Parallel()
	rec := tabjson.NewRecord()
	rec.Set("a", nil)
	rec.Set("b", tabjson.Leaf(2))

	n, ok := rec.Get("a")
	require.True(t, ok)
	assert.False(t, n.IsBranch())
	assert.Nil(t, n.Value)

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":2}`, string(data))
	assert.Equal(t, map[string]any{"a": nil, "b": 2}, rec.Map())
}

func TestNodeConstructors(t *testing.T) {
	t.Parallel()
	inner := tabjson.NewRecord()
	inner.Set("city", tabjson.Leaf("Lyon"))

	rec := tabjson.NewRecord()
	rec.Set("id", tabjson.Leaf(1))
	rec.Set("addr", tabjson.Branch(inner))
	rec.Set("tags", tabjson.Branch(nil))

	assert.False(t, tabjson.Leaf(nil).IsBranch())
	assert.True(t, tabjson.Branch(nil).IsBranch())

	var none *tabjson.Node
	assert.False(t, none.IsBranch())

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"addr":{"city":"Lyon"},"tags":{}}`, string(data))
}

func TestNilRecord(t *testing.T) {
	t.Parallel()
	var rec *tabjson.Record
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
	assert.Nil(t, rec.Map())
}

func TestRecordMarshalJSONDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()
	data, err := sampleRecord(t).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"addr":{"city":"Lyon","geo":{"lat":45.76}},"note":"<b>&"}`, string(data))
}

func TestRecordMarshalJSONEmpty(t *testing.T) {
	t.Parallel()
	data, err := tabjson.NewRecord().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRecordMarshalJSONEscapesKeys(t *testing.T) {
	t.Parallel()
	rec := tabjson.NewRecord()
	rec.Set(`say "hi"`, tabjson.Leaf("x"))
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"say \"hi\"":"x"}`, string(data))
}

func TestRecordMarshalYAMLKeepsOrder(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	require.NoError(t, enc.Encode(sampleRecord(t)))
	require.NoError(t, enc.Close())

	out := buf.String()
	assert.Less(t, strings.Index(out, "id:"), strings.Index(out, "addr:"))
	assert.Less(t, strings.Index(out, "addr:"), strings.Index(out, "note:"))
	assert.Less(t, strings.Index(out, "city:"), strings.Index(out, "geo:"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, map[string]any{
		"id":   7,
		"addr": map[string]any{"city": "Lyon", "geo": map[string]any{"lat": 45.76}},
		"note": "<b>&",
	}, back)
}
