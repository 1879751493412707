package tabjson

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Node is one position in a [Record] tree. A node is either a leaf holding a
// scalar cell value or a branch holding a nested record. Build nodes with
// [Leaf] and [Branch]; when Record is set, Value is ignored.
type Node struct {
	Value  any
	Record *Record
}

// Leaf returns a node holding the scalar v.
func Leaf(v any) *Node { return &Node{Value: v} }

// Branch returns a node holding rec, or a new empty record when rec is nil.
func Branch(rec *Record) *Node {
	if rec == nil {
		rec = NewRecord()
	}
	return &Node{Record: rec}
}

// IsBranch reports whether the node holds a nested record.
func (n *Node) IsBranch() bool { return n != nil && n.Record != nil }

// Record is a mapping from key segments to nodes that remembers insertion
// order. JSON and YAML output list keys in that order.
type Record struct {
	keys  []string
	nodes map[string]*Node
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{nodes: make(map[string]*Node)}
}

// Len returns the number of keys at the top level of r.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns the top-level keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the node stored under key.
func (r *Record) Get(key string) (*Node, bool) {
	n, ok := r.nodes[key]
	return n, ok
}

// Set stores n under key. Replacing an existing key keeps its position.
// A nil node is stored as a nil leaf.
func (r *Record) Set(key string, n *Node) {
	if n == nil {
		n = Leaf(nil)
	}
	if _, ok := r.nodes[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.nodes[key] = n
}

// Lookup walks path and returns the value found there: the scalar for a
// leaf, or the nested *Record for a branch.
func (r *Record) Lookup(path ...string) (any, bool) {
	cur := r
	for i, seg := range path {
		n, ok := cur.nodes[seg]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			if n.IsBranch() {
				return n.Record, true
			}
			return n.Value, true
		}
		if !n.IsBranch() {
			return nil, false
		}
		cur = n.Record
	}
	return r, true
}

// Map converts r into plain nested maps. Key order is lost.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		n := r.nodes[k]
		if n.IsBranch() {
			out[k] = n.Record.Map()
		} else {
			out[k] = n.Value
		}
	}
	return out
}

// MarshalJSON encodes r as a compact JSON object with keys in insertion
// order. HTML characters are not escaped. A nil record encodes as null.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := r.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Record) appendJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendScalarJSON(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		n := r.nodes[k]
		if n.IsBranch() {
			if err := n.Record.appendJSON(buf); err != nil {
				return err
			}
			continue
		}
		if err := appendScalarJSON(buf, n.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendScalarJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// MarshalYAML encodes r as an ordered YAML mapping.
func (r *Record) MarshalYAML() (any, error) {
	if r == nil {
		return nil, nil
	}
	return r.yamlNode()
}

func (r *Record) yamlNode() (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		n := r.nodes[k]
		var val *yaml.Node
		if n.IsBranch() {
			child, err := n.Record.yamlNode()
			if err != nil {
				return nil, err
			}
			val = child
		} else {
			val = &yaml.Node{}
			if err := val.Encode(n.Value); err != nil {
				return nil, err
			}
		}
		m.Content = append(m.Content, key, val)
	}
	return m, nil
}
