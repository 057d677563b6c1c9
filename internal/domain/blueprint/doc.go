// Package blueprint discovers blueprint categories on disk and assembles their
// summaries and details.
//
// A blueprint repository is a directory with one subdirectory per category:
//
//	<root>/<category>/BLUEPRINT.md      design document
//	<root>/<category>/ARCHITECTURE.md   optional architecture document
//	<root>/<category>/features.yml      optional feature catalog
//	<root>/<category>/profiles/*.md     optional memory profiles
//
// Nothing is held between calls: every method reads the filesystem again.
// Absent files degrade to empty values; only an unknown category is an error.
//
// Key Components:
//   - Store: discovery, summary, detail and file access
//   - Category, Detail, File: response shapes
//   - ErrNotFound, ErrInvalidPath: sentinel errors for the API layer
//
// Example:
//
//	store := blueprint.NewStore("./blueprints", blueprint.Options{})
//	ids, _ := store.Categories(ctx)
//	summary, err := store.Summary(ctx, ids[0])
package blueprint
