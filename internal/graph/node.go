package graph

import "github.com/born-ml/omview/internal/metadata"

// Graph is a decoded computation graph. Constant ops are folded into their consumers and
// do not appear as nodes.
type Graph struct {
	Name    string
	Inputs  []string // Graph input names as declared by the model
	Outputs []string // Graph output names as declared by the model
	Nodes   []*Node
}

// Node is one operation of a graph.
type Node struct {
	Name                string
	Type                *metadata.Type // Catalog schema, or a bare {Name: op type} when unknown
	Inputs              []*Parameter
	Outputs             []*Parameter
	Attributes          []*Attribute
	ControlDependencies []string // Producer names of control edges
	Device              string
}

// Parameter is a named input or output port.
type Parameter struct {
	Name      string
	Visible   bool
	Arguments []*Argument
}

// Argument is a value flowing through a port. Exactly one of Type and Initializer is set:
// Type for an edge from another node, Initializer for an inlined constant.
type Argument struct {
	Name        string
	Type        *TensorType
	Initializer *Tensor
}

// TensorType returns the argument type, taken from the initializer when inlined.
func (a *Argument) TensorType() *TensorType {
	if a.Initializer != nil {
		return a.Initializer.Type
	}
	return a.Type
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Attribute returns the named attribute of the node.
func (n *Node) Attribute(name string) (*Attribute, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
