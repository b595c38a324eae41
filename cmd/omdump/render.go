package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/born-ml/omview/internal/container"
	"github.com/born-ml/omview/om"
)

// terminalWidth returns the stdout width, 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec // G115: file descriptors fit in int.
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// truncate shortens s to fit width display columns. Zero width disables truncation.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// cellWidth splits a terminal width across columns, never below 16 columns per cell.
func cellWidth(width, columns int) int {
	if width <= 0 {
		return 0
	}
	return max(width/columns, 16)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func renderSummary(w io.Writer, path string, m om.Model) {
	h := m.Header()
	nodes := 0
	for _, g := range m.Graphs() {
		nodes += len(g.Nodes)
	}

	data := [][]string{
		{"file", path},
		{"format", m.Format()},
		{"name", m.Name()},
		{"version", strconv.FormatUint(uint64(m.Version()), 10)},
		{"model kind", h.ModelKind.String()},
		{"deploy mode", h.DeployMode.String()},
		{"platform", strings.TrimSpace(h.PlatformVersion + " " + strconv.Itoa(int(h.PlatformType)))},
		{"encrypted", strconv.FormatBool(h.Encrypted)},
		{"ops", strconv.FormatUint(uint64(h.OpCount), 10)},
		{"graphs", strconv.Itoa(len(m.Graphs()))},
		{"nodes", strconv.Itoa(nodes)},
		{"weights", formatBytes(len(m.Weights()))},
	}

	table := newTable(w, []string{"PROPERTY", "VALUE"})
	table.AppendBulk(data)
	table.Render()
}

func renderPartitions(w io.Writer, parts []om.Partition) {
	base := container.PayloadBase(len(parts))

	var data [][]string
	for i, p := range parts {
		data = append(data, []string{
			strconv.Itoa(i),
			p.Kind.String(),
			strconv.FormatUint(uint64(p.Offset), 10),
			strconv.FormatInt(base+int64(p.Offset), 10),
			formatBytes(int(p.Size)),
		})
	}

	table := newTable(w, []string{"INDEX", "KIND", "OFFSET", "ABSOLUTE", "SIZE"})
	table.AppendBulk(data)
	table.Render()
}

func renderDevices(w io.Writer, devices map[string]uint32) {
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	slices.Sort(names)

	var data [][]string
	for _, name := range names {
		data = append(data, []string{name, strconv.FormatUint(uint64(devices[name]), 10)})
	}

	table := newTable(w, []string{"DEVICE", "ID"})
	table.AppendBulk(data)
	table.Render()
}

func renderNodes(w io.Writer, g *om.Graph, width int) {
	cell := cellWidth(width, 4)

	var data [][]string
	for _, n := range g.Nodes {
		data = append(data, []string{
			n.Name,
			n.Type.Name,
			truncate(formatParameters(n.Inputs), cell),
			truncate(formatParameters(n.Outputs), cell),
			strings.Join(n.ControlDependencies, ", "),
			n.Device,
		})
	}

	table := newTable(w, []string{"NAME", "TYPE", "INPUTS", "OUTPUTS", "CONTROL", "DEVICE"})
	table.AppendBulk(data)
	table.Render()
}

func renderAttributes(w io.Writer, g *om.Graph, width int) {
	cell := cellWidth(width, 2)

	var data [][]string
	for _, n := range g.Nodes {
		for _, a := range n.Attributes {
			if !a.Visible || a.Value == nil {
				continue
			}
			data = append(data, []string{n.Name, a.Name, a.Type, truncate(a.Value.String(), cell)})
		}
	}

	table := newTable(w, []string{"NODE", "ATTRIBUTE", "TYPE", "VALUE"})
	table.AppendBulk(data)
	table.Render()
}

func renderConstants(w io.Writer, g *om.Graph, limit, width int) {
	cell := cellWidth(width, 2)

	var data [][]string
	for _, n := range g.Nodes {
		for _, p := range n.Inputs {
			for _, arg := range p.Arguments {
				if arg.Initializer == nil {
					continue
				}
				data = append(data, []string{
					n.Name,
					arg.Name,
					arg.Initializer.Type.String(),
					truncate(formatValues(arg.Initializer, limit), cell),
				})
			}
		}
	}

	table := newTable(w, []string{"NODE", "CONSTANT", "TYPE", "VALUES"})
	table.AppendBulk(data)
	table.Render()
}

func formatParameters(params []*om.Parameter) string {
	var parts []string
	for _, p := range params {
		for _, arg := range p.Arguments {
			s := p.Name + "=" + arg.Name
			if t := arg.TensorType(); t != nil {
				s += " " + t.String()
			}
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func formatValues(t *om.Tensor, limit int) string {
	if t.Data == nil {
		return "-"
	}
	values, err := t.Float32s(limit)
	if err != nil {
		return "-"
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	s := "[" + strings.Join(parts, ", ")
	if n, ok := t.Type.Shape.NumElements(); ok && n > int64(len(values)) {
		s += ", ..."
	}
	return s + "]"
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
