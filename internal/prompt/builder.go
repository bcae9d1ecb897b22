// Package prompt assembles the text sent to the generation model.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/periplo/periplo/internal/catalog"
)

// ErrTemplate indicates the category's prompt template is unreadable.
var ErrTemplate = errors.New("prompt template unreadable")

// Placeholder tokens expected in every category template, each of which is
// substituted exactly once.
const (
	dataPlaceholder  = "{CSV_DATA_GOES_HERE}"
	queryPlaceholder = "{USER_QUERY_GOES_HERE}"
)

// Builder builds prompts from per-category template files.
type Builder struct {
	dir string
}

// NewBuilder creates a builder reading <dir>/<category>.txt templates.
func NewBuilder(dir string) *Builder {
	return &Builder{dir: dir}
}

// Build reads the category template and substitutes the record data and the
// user query into it. Records are serialized as an indented JSON array in
// their original order.
//
// The query is embedded verbatim, with no escaping or sanitization. Prompt
// injection through the query is a known exposure of this design, carried
// over deliberately; see DESIGN.md.
func (b *Builder) Build(category string, records []catalog.Record, query string) (string, error) {
	path := filepath.Join(b.dir, category+".txt")
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, path, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing records: %w", err)
	}

	text := strings.Replace(string(raw), dataPlaceholder, string(data), 1)
	text = strings.Replace(text, queryPlaceholder, query, 1)
	return text, nil
}
