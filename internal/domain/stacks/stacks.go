// Package stacks defines named collections of blueprint categories and
// resolves whether each layer is ready to use.
//
// Stacks come from an optional stacks.yml at the blueprint root:
//
//	stacks:
//	  - name: Web Application
//	    description: Request path of a typical web product
//	    layers: [web-servers, caches, databases]
//
// When the file is absent or unusable the built-in defaults apply.
package stacks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// FileName is the stack definition file looked up at the blueprint root.
const FileName = "stacks.yml"

// Definition is a configured stack.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Layers      []string `yaml:"layers"`
}

type file struct {
	Stacks []Definition `yaml:"stacks"`
}

// Layer is one category of a resolved stack.
type Layer struct {
	Category string `json:"category"`
	Ready    bool   `json:"ready"`
}

// Stack is a resolved stack.
type Stack struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Layers      []Layer `json:"layers"`
}

// Defaults returns the built-in stack definitions.
func Defaults() []Definition {
	return []Definition{
		{
			Name:        "Web Application",
			Description: "Request path of a typical web product",
			Layers:      []string{"web-servers", "caches", "databases", "message-queues"},
		},
		{
			Name:        "Data Platform",
			Description: "Ingest, store and query large datasets",
			Layers:      []string{"stream-processing", "object-storage", "databases", "search-engines"},
		},
		{
			Name:        "Edge",
			Description: "Traffic handling close to the client",
			Layers:      []string{"load-balancers", "web-servers", "caches"},
		},
		{
			Name:        "Systems",
			Description: "Low-level building blocks",
			Layers:      []string{"compilers", "container-runtimes", "databases"},
		},
	}
}

// Load reads stack definitions from root. A missing file yields the defaults
// and no error; an unreadable or malformed file yields the defaults together
// with the error so the caller can report it.
func Load(root string) ([]Definition, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Defaults(), fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	defs := make([]Definition, 0, len(f.Stacks))
	for _, d := range f.Stacks {
		if d.Name == "" || len(d.Layers) == 0 {
			continue
		}
		defs = append(defs, d)
	}
	if len(defs) == 0 {
		return Defaults(), fmt.Errorf("%s defines no usable stacks", FileName)
	}
	return defs, nil
}

// Resolve marks each layer ready according to ready, preserving order.
func Resolve(defs []Definition, ready func(category string) bool) []Stack {
	out := make([]Stack, 0, len(defs))
	for _, d := range defs {
		layers := make([]Layer, 0, len(d.Layers))
		for _, category := range d.Layers {
			layers = append(layers, Layer{Category: category, Ready: ready(category)})
		}
		out = append(out, Stack{Name: d.Name, Description: d.Description, Layers: layers})
	}
	return out
}
