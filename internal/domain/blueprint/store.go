package blueprint

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smilinTux/forgeprint-sub000/internal/domain/catalog"
	"github.com/smilinTux/forgeprint-sub000/internal/shared/utils"
)

// Well-known file names inside a category directory.
const (
	DesignFile       = "BLUEPRINT.md"
	ArchitectureFile = "ARCHITECTURE.md"
	CatalogFile      = "features.yml"
	ProfilesDir      = "profiles"
)

// DefaultExcerptLines is the number of design document lines in an excerpt.
const DefaultExcerptLines = 50

var (
	// ErrNotFound is returned for unknown or invalid category ids and files.
	ErrNotFound = errors.New("blueprint not found")
	// ErrInvalidPath is returned for file paths that leave the category.
	ErrInvalidPath = errors.New("invalid blueprint path")
)

// excluded lists top-level entries that are never categories.
var excluded = map[string]bool{
	"_template": true,
	"template":  true,
	"templates": true,
	"LICENSE":   true,
	"license":   true,
}

const profilesPattern = ProfilesDir + "/**/*.{md,txt}"

// Category is the summary of one blueprint.
type Category struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Excerpt      string   `json:"excerpt"`
	FeatureCount int      `json:"featureCount"`
	Files        []string `json:"files"`
}

// Detail is a category summary plus its parsed catalog and documents.
type Detail struct {
	Category
	Features       catalog.Document  `json:"features"`
	Blueprint      string            `json:"blueprint"`
	Architecture   string            `json:"architecture"`
	MemoryProfiles map[string]string `json:"memoryProfiles"`
}

// Observer receives catalog load events. It is satisfied by the monitoring
// package; a nil Observer disables reporting.
type Observer interface {
	ObserveParse(stats catalog.Stats)
	ObserveCacheLookup(hit bool)
}

// Options configures a Store.
type Options struct {
	ExcerptLines int
	Cache        *catalog.Cache
	Observer     Observer
}

// Store reads blueprint categories from a root directory.
type Store struct {
	root         string
	excerptLines int
	cache        *catalog.Cache
	observer     Observer
	sanitizer    *bluemonday.Policy
}

// NewStore creates a store rooted at root
func NewStore(root string, opts Options) *Store {
	lines := opts.ExcerptLines
	if lines <= 0 {
		lines = DefaultExcerptLines
	}
	return &Store{
		root:         root,
		excerptLines: lines,
		cache:        opts.Cache,
		observer:     opts.Observer,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

// Root returns the blueprint root directory.
func (s *Store) Root() string {
	return s.root
}

// Categories lists category ids in name order. A missing root yields an
// empty list.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read blueprint root: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if excluded[name] || strings.HasPrefix(name, ".") {
			continue
		}
		// Stat follows symlinked category directories.
		info, err := os.Stat(filepath.Join(s.root, name))
		if err != nil || !info.IsDir() {
			continue
		}
		ids = append(ids, name)
	}

	sort.Strings(ids)
	return ids, nil
}

// Exists reports whether id names a category.
func (s *Store) Exists(id string) bool {
	_, err := s.dir(id)
	return err == nil
}

// HasDesign reports whether the category's design document exists.
func (s *Store) HasDesign(id string) bool {
	dir, err := s.dir(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, DesignFile))
	return err == nil && !info.IsDir()
}

// Summary builds the summary of one category.
func (s *Store) Summary(ctx context.Context, id string) (*Category, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}

	design := readText(filepath.Join(dir, DesignFile))

	files, err := s.inventory(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", id, err)
	}

	var count int
	if src, err := os.ReadFile(filepath.Join(dir, CatalogFile)); err == nil {
		count = catalog.CountFeatures(src)
	}

	return &Category{
		ID:           id,
		Description:  s.describe(design),
		Excerpt:      excerpt(design, s.excerptLines),
		FeatureCount: count,
		Files:        files,
	}, nil
}

// Summaries builds summaries for every category. A category that fails is
// skipped so that one bad directory cannot hide the others.
func (s *Store) Summaries(ctx context.Context) ([]Category, []error) {
	ids, err := s.Categories(ctx)
	if err != nil {
		return []Category{}, []error{err}
	}

	out := make([]Category, 0, len(ids))
	var errs []error
	for _, id := range ids {
		summary, err := s.Summary(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, append(errs, ctxErr)
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, *summary)
	}
	return out, errs
}

// Catalog parses the category's feature catalog. A missing catalog file
// yields an empty document.
func (s *Store) Catalog(ctx context.Context, id string) (catalog.Document, error) {
	dir, err := s.dir(id)
	if err != nil {
		return catalog.Empty(), err
	}
	if err := ctx.Err(); err != nil {
		return catalog.Empty(), err
	}
	return s.loadCatalog(id, filepath.Join(dir, CatalogFile)), nil
}

// Detail assembles the full view of one category.
func (s *Store) Detail(ctx context.Context, id string) (*Detail, error) {
	summary, err := s.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Category:       *summary,
		Features:       s.loadCatalog(id, filepath.Join(dir, CatalogFile)),
		Blueprint:      readText(filepath.Join(dir, DesignFile)),
		Architecture:   readText(filepath.Join(dir, ArchitectureFile)),
		MemoryProfiles: memoryProfiles(dir),
	}, nil
}

// Design returns the design document text, or "" when absent.
func (s *Store) Design(id string) string {
	dir, err := s.dir(id)
	if err != nil {
		return ""
	}
	return readText(filepath.Join(dir, DesignFile))
}

// CatalogSource returns the raw feature catalog text, or "" when absent.
func (s *Store) CatalogSource(id string) string {
	dir, err := s.dir(id)
	if err != nil {
		return ""
	}
	return readText(filepath.Join(dir, CatalogFile))
}

func (s *Store) loadCatalog(id, path string) catalog.Document {
	if s.cache != nil {
		doc, stats, hit := s.cache.Load(id, path)
		if s.observer != nil {
			s.observer.ObserveCacheLookup(hit)
			if stats != nil {
				s.observer.ObserveParse(*stats)
			}
		}
		return doc
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return catalog.Empty()
	}
	p := catalog.NewParser()
	doc := p.Parse(content)
	if s.observer != nil {
		s.observer.ObserveParse(p.Stats())
	}
	return doc
}

// dir validates id and returns the category directory.
func (s *Store) dir(id string) (string, error) {
	if err := utils.ValidateCategoryID(id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if excluded[id] || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	dir := filepath.Join(s.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return dir, nil
}

// describe returns the first non-empty, non-heading line as plain text.
func (s *Store) describe(design string) string {
	for _, line := range strings.Split(design, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(line)))
	}
	return ""
}

func excerpt(design string, n int) string {
	if design == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(design, "\r\n", "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func memoryProfiles(dir string) map[string]string {
	profiles := make(map[string]string)
	matches, err := doublestar.Glob(os.DirFS(dir), profilesPattern, doublestar.WithFilesOnly())
	if err != nil {
		return profiles
	}
	sort.Strings(matches)
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), filepath.Ext(match))
		profiles[name] = readText(filepath.Join(dir, filepath.FromSlash(match)))
	}
	return profiles
}

func readText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
