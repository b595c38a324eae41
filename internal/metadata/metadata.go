// Package metadata provides the operator catalog used to name node inputs and outputs and
// to attach schemas to attributes.
//
// A catalog is a JSON array of operator entries:
//
//	[{"name": "Conv2D", "category": "Layer",
//	  "inputs": [{"name": "x"}, {"name": "filter"}],
//	  "outputs": [{"name": "y"}],
//	  "attributes": [{"name": "strides", "type": "int64[]"}]}]
//
// Catalogs are immutable once loaded and safe for concurrent use.
package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

//go:embed om-metadata.json
var defaultCatalog []byte

// Provider resolves operator schemas by op type.
type Provider interface {
	// Type returns the schema of an op type, nil when unknown.
	Type(name string) *Type
	// Attribute returns the schema of an attribute of an op type, nil when unknown.
	Attribute(opType, name string) *Attribute
}

// Type is the schema of one operator.
type Type struct {
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Inputs      []Argument  `json:"inputs,omitempty"`
	Outputs     []Argument  `json:"outputs,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// InputName returns the declared name of input i.
func (t *Type) InputName(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.Inputs) {
		return "", false
	}
	return t.Inputs[i].Name, true
}

// OutputName returns the declared name of output i.
func (t *Type) OutputName(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.Outputs) {
		return "", false
	}
	return t.Outputs[i].Name, true
}

// Argument is a declared input or output.
type Argument struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Attribute is the schema of one operator attribute.
type Attribute struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Default     any    `json:"default,omitempty"`
	Visible     *bool  `json:"visible,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsVisible reports whether the attribute is shown by default. Attributes without a schema
// are visible.
func (a *Attribute) IsVisible() bool {
	return a == nil || a.Visible == nil || *a.Visible
}

// Catalog is a Provider backed by a fixed set of operator schemas.
type Catalog struct {
	types      map[string]*Type
	attributes map[string]map[string]*Attribute
}

// Empty returns a catalog that knows no operators.
func Empty() *Catalog {
	return &Catalog{
		types:      map[string]*Type{},
		attributes: map[string]map[string]*Attribute{},
	}
}

// Load reads a JSON catalog.
func Load(r io.Reader) (*Catalog, error) {
	var entries []*Type
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := Empty()
	for i, t := range entries {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing name", i)
		}
		c.types[t.Name] = t
		attrs := make(map[string]*Attribute, len(t.Attributes))
		for j := range t.Attributes {
			attrs[t.Attributes[j].Name] = &t.Attributes[j]
		}
		c.attributes[t.Name] = attrs
	}
	return c, nil
}

// LoadFile reads a JSON catalog from path.
//
//nolint:gosec // G304: Path is provided by user.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
})

// Default returns the catalog embedded in the binary. It is parsed once and shared.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Open loads the catalog at path, or the embedded catalog when path is empty. Failures are
// logged and fall back to the embedded catalog, then to an empty one; Open never fails.
func Open(path string) *Catalog {
	if path != "" {
		c, err := LoadFile(path)
		if err == nil {
			return c
		}
		slog.Warn("operator catalog unavailable, using built-in catalog", "path", path, "error", err)
	}

	c, err := Default()
	if err != nil {
		slog.Warn("built-in operator catalog unavailable", "error", err)
		return Empty()
	}
	return c
}

// Type implements Provider.
func (c *Catalog) Type(name string) *Type {
	return c.types[name]
}

// Attribute implements Provider.
func (c *Catalog) Attribute(opType, name string) *Attribute {
	return c.attributes[opType][name]
}

// Len returns the number of operators in the catalog.
func (c *Catalog) Len() int {
	return len(c.types)
}
