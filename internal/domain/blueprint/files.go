package blueprint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxFileBytes is the largest file whose content File returns.
const MaxFileBytes = 1 << 20

// File is one file of a category inventory.
type File struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Text     bool   `json:"text"`
	Charset  string `json:"charset,omitempty"`
	Content  string `json:"content,omitempty"`
}

// inventory walks dir and returns slash-separated relative file paths in
// lexical order.
func (s *Store) inventory(ctx context.Context, dir string) ([]string, error) {
	var (
		mu    sync.Mutex
		files = []string{}
	)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		mu.Lock()
		files = append(files, filepath.ToSlash(rel))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// File reads one file of a category. rel is slash-separated and relative to
// the category directory; content is returned only for text files no larger
// than MaxFileBytes.
func (s *Store) File(ctx context.Context, id, rel string) (*File, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}

	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	local := filepath.FromSlash(rel)
	if rel == "." || !filepath.IsLocal(local) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(dir, local)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, id, rel)
	}

	mtype, err := mimetype.DetectFile(full)
	if err != nil {
		return nil, fmt.Errorf("mime detection failed: %w", err)
	}

	f := &File{
		Path:     rel,
		MimeType: mtype.String(),
		Size:     info.Size(),
		Text:     isText(mtype),
	}
	if f.Text && info.Size() <= MaxFileBytes {
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}
		f.Charset = detectCharset(data)
		content, err := toUTF8(data, f.Charset)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s as %s: %w", rel, f.Charset, err)
		}
		f.Content = content
	}
	return f, nil
}

// detectCharset guesses the encoding of data. Valid UTF-8, which includes
// plain ASCII, is never second-guessed.
func detectCharset(data []byte) string {
	if utf8.Valid(data) {
		return "utf-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// toUTF8 transcodes data from the named charset. Labels the charset package
// does not know pass through unchanged.
func toUTF8(data []byte, label string) (string, error) {
	if label == "utf-8" {
		return string(data), nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return string(data), nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isText reports whether mtype is readable text. mimetype models most text
// formats as descendants of text/plain, so the parent chain is walked too.
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") ||
			m.Is("application/json") ||
			m.Is("application/xml") ||
			m.Is("application/javascript") {
			return true
		}
	}
	return false
}
