// Package graph turns a decoded graph definition into a normalized graph of nodes,
// parameters, arguments and typed tensors.
//
// Inputs are resolved from "producer:index" references:
//
//	"conv1:0"   edge from output 0 of conv1, identified as "conv1"
//	"split:2"   edge from output 2 of split, identified as "split:2"
//	"init:-1"   control dependency on init, no data parameter
//	""          unused slot, skipped
//
// A reference to a Const op is replaced by the constant's tensor, read from the op's inline
// bytes or sliced out of the weight blob. Const ops themselves never become nodes.
//
// Tensor data are views into the container buffer, which must outlive the graph.
package graph
