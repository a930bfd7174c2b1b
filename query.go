package depot

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []Component
}

type filter struct {
	root QueryNode
}

func newFilter() Filter {
	return &filter{}
}

func newCompositeNode(op Operation, components []Component) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

// nodeMask builds the mask of components at evaluation time, so nodes can be
// created before the world that evaluates them.
func nodeMask(components []Component, graph *ArchetypeGraph) mask.Mask {
	var m mask.Mask
	for _, comp := range components {
		m.Mark(graph.bit(comp.Kind()))
	}
	return m
}

func (n *compositeNode) Evaluate(archetype *Archetype, graph *ArchetypeGraph) bool {
	m := nodeMask(n.components, graph)
	archeMask := archetype.Mask()

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(m) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, graph) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(m) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, graph) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(archetype, graph) {
				return false
			}
		}
		return archeMask.ContainsNone(m)
	}
	return false
}

func (f *filter) And(items ...interface{}) QueryNode {
	return f.node(OpAnd, items)
}

func (f *filter) Or(items ...interface{}) QueryNode {
	return f.node(OpOr, items)
}

// Not matches archetypes holding none of the components and failing every
// child node.
func (f *filter) Not(items ...interface{}) QueryNode {
	return f.node(OpNot, items)
}

func (f *filter) node(op Operation, items []interface{}) QueryNode {
	components, children := processItems(items...)
	node := newCompositeNode(op, components)
	node.children = children
	if f.root == nil {
		f.root = node
	}
	return node
}

func processItems(items ...interface{}) ([]Component, []QueryNode) {
	components := make([]Component, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

// Evaluate applies the first node built on f. An empty filter matches every
// archetype.
func (f *filter) Evaluate(archetype *Archetype, graph *ArchetypeGraph) bool {
	if f.root == nil {
		return true
	}
	return f.root.Evaluate(archetype, graph)
}
