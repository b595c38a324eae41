// Package ge decodes the graph-engine ModelDef protobuf stored in the model-definition
// partition of an OM container.
//
// The decoder is hand-written on top of protowire and only materializes the messages and
// fields the graph builder consumes. Unknown fields are skipped. Byte fields are views into
// the input buffer.
//
// Example:
//
//	def, err := ge.Decode(file.Model)
//	if err != nil {
//		return err
//	}
//	for _, g := range def.Graphs {
//		fmt.Println(g.Name, len(g.Ops))
//	}
package ge
