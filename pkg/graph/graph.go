package graph

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/sitegraph/pkg/errors"
)

// ===== Encoding =====

// MarshalGraph returns the indented JSON form of g.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph encodes g to w. Nil node and edge lists are written as [].
func WriteGraph(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ===== Decoding =====

// ReadGraph decodes a graph and checks it is self-consistent: node ids are
// unique, every edge joins two known nodes with a known kind, and every
// parent reference names a node in the graph.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}
	if err := g.check(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

func (g Graph) check() error {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node without id")
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, n := range g.Nodes {
		if n.Parent != "" && !ids[n.Parent] {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has unknown parent %q", n.ID, n.Parent)
		}
	}
	for _, e := range g.Edges {
		if e.Kind != EdgeContains && e.Kind != EdgeImports {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s -> %s has unknown kind %q", e.From, e.To, e.Kind)
		}
		if !ids[e.From] || !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s -> %s references unknown node", e.From, e.To)
		}
	}
	return nil
}
