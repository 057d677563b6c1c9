// Package driver renders a driver document: a checklist of the features a
// client picked for one blueprint category, with language, hardware and
// memory targets and a build-options footer.
//
// Output is a pure function of the Selection. Groups are emitted in name
// order and choices in submitted order, so identical input always yields
// byte-identical text.
package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildOptions is the fixed footer of every driver.
type BuildOptions struct {
	Profile    string   `toml:"profile"`
	Tests      bool     `toml:"tests"`
	Benchmarks bool     `toml:"benchmarks"`
	Docs       bool     `toml:"docs"`
	Lint       []string `toml:"lint"`
}

// DefaultBuildOptions are rendered into the footer.
var DefaultBuildOptions = BuildOptions{
	Profile:    "release",
	Tests:      true,
	Benchmarks: true,
	Docs:       true,
	Lint:       []string{"fmt", "vet"},
}

var buildFooter = mustRenderTOML(DefaultBuildOptions)

func mustRenderTOML(v interface{}) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("driver: render build options: %v", err))
	}
	return string(b)
}

// Generate renders the driver document for sel.
func Generate(sel Selection) string {
	sel = sel.normalize()

	var b strings.Builder
	fmt.Fprintf(&b, "# Driver: %s\n\n", sel.Category)

	b.WriteString("## Blueprint\n\n")
	fmt.Fprintf(&b, "blueprints/%s/BLUEPRINT.md\n\n", sel.Category)

	b.WriteString("## Target Language\n\n")
	fmt.Fprintf(&b, "%s\n\n", sel.Language)

	b.WriteString("## Hardware Profile\n\n")
	fmt.Fprintf(&b, "- hardware: %s\n", sel.Hardware)
	fmt.Fprintf(&b, "- memory: %s\n\n", sel.Memory)

	b.WriteString("## Features\n\n")
	groups := make([]string, 0, len(sel.Features))
	for group := range sel.Features {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	if len(groups) == 0 {
		b.WriteString("_No features selected._\n\n")
	}
	for _, group := range groups {
		fmt.Fprintf(&b, "### %s\n\n", group)
		for _, choice := range sel.Features[group] {
			mark := " "
			if choice.Enabled {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, choice.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Build Options\n\n")
	b.WriteString("```toml\n")
	b.WriteString(buildFooter)
	b.WriteString("```\n")

	return b.String()
}
