package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/omview/internal/envconfig"
	"github.com/born-ml/omview/om"
)

// InspectHandler summarizes every file given. Files are loaded concurrently and printed
// in argument order.
func InspectHandler(cmd *cobra.Command, args []string) error {
	opts := loadOptions(cmd)

	var g errgroup.Group
	g.SetLimit(max(int(envconfig.Parallel()), 1)) //nolint:gosec // G115: small count.

	models := make([]om.Model, len(args))
	for i, path := range args {
		g.Go(func() error {
			m, err := om.LoadFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			slog.Debug("inspected", "path", path, "graphs", len(m.Graphs()))
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, m := range models {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderSummary(w, args[i], m)
		fmt.Fprintln(w)
		renderPartitions(w, m.Partitions())
		if len(m.Devices()) > 0 {
			fmt.Fprintln(w)
			renderDevices(w, m.Devices())
		}
	}
	return nil
}

// GraphHandler prints the node table of each graph, optionally with attributes and
// constant previews.
func GraphHandler(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("graph")
	attrs, _ := cmd.Flags().GetBool("attrs")
	values, _ := cmd.Flags().GetInt("values")

	m, err := om.LoadFile(args[0], loadOptions(cmd))
	if err != nil {
		return err
	}

	graphs := m.Graphs()
	if name != "" {
		graphs = nil
		for _, g := range m.Graphs() {
			if g.Name == name {
				graphs = append(graphs, g)
			}
		}
		if len(graphs) == 0 {
			return fmt.Errorf("graph %q not found in %s", name, args[0])
		}
	}

	w := cmd.OutOrStdout()
	width := terminalWidth()
	for i, g := range graphs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "graph %s (%d nodes)\n\n", g.Name, len(g.Nodes))
		renderNodes(w, g, width)
		if attrs {
			fmt.Fprintln(w)
			renderAttributes(w, g, width)
		}
		if values > 0 {
			fmt.Fprintln(w)
			renderConstants(w, g, values, width)
		}
	}
	return nil
}

// PartitionsHandler prints the partition table without decoding the graph definition.
func PartitionsHandler(cmd *cobra.Command, args []string) error {
	info, err := om.InspectFile(args[0])
	if err != nil {
		return err
	}

	renderPartitions(cmd.OutOrStdout(), info.Partitions)
	return nil
}
