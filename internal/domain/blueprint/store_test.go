package blueprint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilinTux/forgeprint-sub000/internal/domain/catalog"
)

const webServersDesign = `# Web Servers

<b>High-performance</b> HTTP servers & reverse proxies.

## Scope
Static files, TLS, caching.
`

const webServersCatalog = `groups:
  protocol:
    name: "Protocols"
    features:
      - name: HTTP/1.1
        complexity: low
        default: on
      - name: HTTP/2
        complexity: high
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newFixture builds a small blueprint tree:
//
//	web-servers/   design, architecture, catalog, profiles, nested file
//	databases/     catalog only
//	_template/     excluded
//	LICENSE        plain file
func newFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	web := filepath.Join(root, "web-servers")
	writeFile(t, filepath.Join(web, DesignFile), webServersDesign)
	writeFile(t, filepath.Join(web, ArchitectureFile), "# Architecture\nEvent loop.\n")
	writeFile(t, filepath.Join(web, CatalogFile), webServersCatalog)
	writeFile(t, filepath.Join(web, ProfilesDir, "embedded.md"), "64 MiB heap\n")
	writeFile(t, filepath.Join(web, ProfilesDir, "large", "server.txt"), "32 GiB heap\n")
	writeFile(t, filepath.Join(web, "src", "main.c"), "int main(void) { return 0; }\n")

	writeFile(t, filepath.Join(root, "databases", CatalogFile), "  g:\n    features:\n      - name: WAL\n")
	writeFile(t, filepath.Join(root, "_template", DesignFile), "# Template\n")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: main\n")
	writeFile(t, filepath.Join(root, "LICENSE"), "MIT\n")

	return root
}

func TestCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("lists directories and skips excluded entries", func(t *testing.T) {
		store := NewStore(newFixture(t), Options{})

		ids, err := store.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"databases", "web-servers"}, ids)
	})

	t.Run("missing root yields empty list", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "nope"), Options{})

		ids, err := store.Categories(ctx)
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFixture(t), Options{})

	summary, err := store.Summary(ctx, "web-servers")
	require.NoError(t, err)

	assert.Equal(t, "web-servers", summary.ID)
	assert.Equal(t, "High-performance HTTP servers & reverse proxies.", summary.Description)
	assert.Equal(t, strings.TrimSuffix(webServersDesign, "\n"), strings.TrimSuffix(summary.Excerpt, "\n"))
	assert.Equal(t, 2, summary.FeatureCount)
	assert.Equal(t, []string{
		ArchitectureFile,
		DesignFile,
		CatalogFile,
		"profiles/embedded.md",
		"profiles/large/server.txt",
		"src/main.c",
	}, summary.Files)
}

func TestSummaryWithoutDesign(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	summary, err := store.Summary(context.Background(), "databases")
	require.NoError(t, err)

	assert.Empty(t, summary.Description)
	assert.Empty(t, summary.Excerpt)
	assert.Equal(t, 1, summary.FeatureCount)
	assert.Equal(t, []string{CatalogFile}, summary.Files)
}

func TestSummaryExcerptIsBounded(t *testing.T) {
	root := t.TempDir()
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("line\n")
	}
	writeFile(t, filepath.Join(root, "long", DesignFile), sb.String())

	store := NewStore(root, Options{ExcerptLines: 10})
	summary, err := store.Summary(context.Background(), "long")
	require.NoError(t, err)

	assert.Len(t, strings.Split(summary.Excerpt, "\n"), 10)
}

func TestUnknownCategory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFixture(t), Options{})

	for _, id := range []string{"does-not-exist", "..", "_template", ".git", "LICENSE", "a/b", ""} {
		_, err := store.Summary(ctx, id)
		assert.True(t, errors.Is(err, ErrNotFound), "summary %q", id)

		_, err = store.Detail(ctx, id)
		assert.True(t, errors.Is(err, ErrNotFound), "detail %q", id)

		_, err = store.Catalog(ctx, id)
		assert.True(t, errors.Is(err, ErrNotFound), "catalog %q", id)

		assert.False(t, store.Exists(id))
	}
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	root := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "foo"), 0o755))
	store := NewStore(root, Options{})

	t.Run("parsed tree", func(t *testing.T) {
		doc, err := store.Catalog(ctx, "web-servers")
		require.NoError(t, err)
		require.Len(t, doc.Groups, 1)
		assert.Equal(t, "Protocols", doc.Groups[0].Name)
		assert.Len(t, doc.Groups[0].Features, 2)
	})

	t.Run("absent catalog yields empty document", func(t *testing.T) {
		doc, err := store.Catalog(ctx, "foo")
		require.NoError(t, err)
		assert.NotNil(t, doc.Groups)
		assert.Empty(t, doc.Groups)
	})
}

type recordingObserver struct {
	parses  []catalog.Stats
	lookups []bool
}

func (r *recordingObserver) ObserveParse(stats catalog.Stats) { r.parses = append(r.parses, stats) }
func (r *recordingObserver) ObserveCacheLookup(hit bool)      { r.lookups = append(r.lookups, hit) }

func TestCatalogObserverAndCache(t *testing.T) {
	ctx := context.Background()
	root := newFixture(t)

	t.Run("uncached parses are reported", func(t *testing.T) {
		obs := &recordingObserver{}
		store := NewStore(root, Options{Observer: obs})

		_, err := store.Catalog(ctx, "web-servers")
		require.NoError(t, err)
		require.Len(t, obs.parses, 1)
		assert.Equal(t, 1, obs.parses[0].Groups)
		assert.Equal(t, 2, obs.parses[0].Features)
		assert.Empty(t, obs.lookups)
	})

	t.Run("cached loads are reported as lookups", func(t *testing.T) {
		obs := &recordingObserver{}
		store := NewStore(root, Options{Observer: obs, Cache: catalog.NewCache()})

		first, err := store.Catalog(ctx, "web-servers")
		require.NoError(t, err)
		second, err := store.Catalog(ctx, "web-servers")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, []bool{false, true}, obs.lookups)
		// Only the miss parsed the file.
		require.Len(t, obs.parses, 1)
		assert.Equal(t, 2, obs.parses[0].Features)
	})
}

func TestDetail(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	detail, err := store.Detail(context.Background(), "web-servers")
	require.NoError(t, err)

	assert.Equal(t, "web-servers", detail.ID)
	assert.Equal(t, webServersDesign, detail.Blueprint)
	assert.Equal(t, "# Architecture\nEvent loop.\n", detail.Architecture)
	assert.Equal(t, map[string]string{
		"embedded": "64 MiB heap\n",
		"server":   "32 GiB heap\n",
	}, detail.MemoryProfiles)
	require.Len(t, detail.Features.Groups, 1)
	assert.Equal(t, "protocol", detail.Features.Groups[0].ID)
}

func TestDetailWithoutOptionalDocuments(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	detail, err := store.Detail(context.Background(), "databases")
	require.NoError(t, err)

	assert.Empty(t, detail.Blueprint)
	assert.Empty(t, detail.Architecture)
	assert.NotNil(t, detail.MemoryProfiles)
	assert.Empty(t, detail.MemoryProfiles)
}

func TestSummaries(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	summaries, errs := store.Summaries(context.Background())
	assert.Empty(t, errs)
	require.Len(t, summaries, 2)
	assert.Equal(t, "databases", summaries[0].ID)
	assert.Equal(t, "web-servers", summaries[1].ID)
}

func TestHasDesign(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	assert.True(t, store.HasDesign("web-servers"))
	assert.False(t, store.HasDesign("databases"))
	assert.False(t, store.HasDesign("missing"))
}

func TestDesignAndCatalogSource(t *testing.T) {
	store := NewStore(newFixture(t), Options{})

	assert.Equal(t, webServersDesign, store.Design("web-servers"))
	assert.Empty(t, store.Design("databases"))
	assert.Equal(t, webServersCatalog, store.CatalogSource("web-servers"))
	assert.Empty(t, store.CatalogSource("missing"))
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFixture(t), Options{})

	t.Run("text file", func(t *testing.T) {
		f, err := store.File(ctx, "web-servers", "/src/main.c")
		require.NoError(t, err)
		assert.Equal(t, "src/main.c", f.Path)
		assert.True(t, f.Text)
		assert.Contains(t, f.MimeType, "text/")
		assert.Equal(t, "int main(void) { return 0; }\n", f.Content)
		assert.EqualValues(t, len(f.Content), f.Size)
		assert.Equal(t, "utf-8", f.Charset)
	})

	t.Run("legacy encoding is transcoded", func(t *testing.T) {
		latin1 := []byte("Cr\xe8me br\xfbl\xe9e with caf\xe9 au lait, served warm at the caf\xe9 counter.\n")
		require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "web-servers", "NOTES.txt"), latin1, 0o644))

		f, err := store.File(ctx, "web-servers", "NOTES.txt")
		require.NoError(t, err)
		assert.True(t, f.Text)
		assert.NotEqual(t, "utf-8", f.Charset)
		assert.True(t, utf8.ValidString(f.Content))
		assert.Contains(t, f.Content, "served warm")
	})

	t.Run("binary file has no content", func(t *testing.T) {
		png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
		require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "web-servers", "logo.png"), png, 0o644))

		f, err := store.File(ctx, "web-servers", "logo.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", f.MimeType)
		assert.False(t, f.Text)
		assert.Empty(t, f.Content)
		assert.Empty(t, f.Charset)
	})

	t.Run("json file is text", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "web-servers", "limits.json"), []byte(`{"workers": 4}`), 0o644))

		f, err := store.File(ctx, "web-servers", "limits.json")
		require.NoError(t, err)
		assert.Equal(t, "application/json", f.MimeType)
		assert.True(t, f.Text)
		assert.Equal(t, `{"workers": 4}`, f.Content)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.File(ctx, "web-servers", "nope.md")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := store.File(ctx, "web-servers", "src")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("escaping path", func(t *testing.T) {
		for _, rel := range []string{"../databases/features.yml", "/../../etc/passwd", "", "/"} {
			_, err := store.File(ctx, "web-servers", rel)
			assert.True(t, errors.Is(err, ErrInvalidPath), rel)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := store.File(ctx, "missing", "BLUEPRINT.md")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewStore(newFixture(t), Options{})

	_, err := store.Categories(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.Catalog(ctx, "web-servers")
	assert.ErrorIs(t, err, context.Canceled)
}
