// Package catalog parses blueprint feature catalogs into a group/feature tree.
//
// A feature catalog (features.yml) is hand-authored in a small, indentation
// sensitive subset of YAML. The parser does not attempt general YAML; it
// recognizes only the layout the catalog authors use:
//
//	  storage:                  group key, exactly 2 spaces
//	    name: "Storage Engines" group property, exactly 4 spaces
//	    description: ...
//	    features:               starts the feature list
//	      - name: "WAL"         feature item, 6 or more spaces
//	        complexity: high
//	        default: on
//
// Key Components:
//   - Parser: single-pass state machine with bounded lookahead windows
//   - Document, Group, Feature: the parsed tree
//   - CountFeatures: cheap bullet count used for summaries
//   - Cache: optional memoization keyed by category id and file mtime
//
// Guarantees:
//   - Parsing never fails; malformed groups and features are omitted
//   - Groups without features are never emitted
//   - Feature complexity and default are always set
//   - Source order of groups and features is preserved
//
// Example:
//
//	doc := catalog.ParseFile(filepath.Join(dir, "features.yml"))
//	for _, g := range doc.Groups {
//	    fmt.Println(g.Name, len(g.Features))
//	}
package catalog
