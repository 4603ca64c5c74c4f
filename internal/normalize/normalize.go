// Package normalize converts bank-specific export rows into canonical
// Transactions. One Normalizer per source format, selected via the Registry.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/model"
)

// FileInfo describes one input file handed to a Normalizer.
type FileInfo struct {
	Name string // base name, used for card-id derivation
	Path string // full path on disk
}

// Normalizer converts one raw export file into canonical Transactions.
// Empty input is a valid condition, returned as a nil slice, not an error.
type Normalizer interface {
	Source() string
	Bank() model.Bank
	Subdir() string
	Extension() string
	Normalize(file FileInfo) ([]model.Transaction, error)
}

// Registry holds named normalizers in a fixed iteration order.
type Registry struct {
	byName map[string]Normalizer
	order  []Normalizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Normalizer)}
}

// Register adds a normalizer. Panics on duplicate source name.
func (r *Registry) Register(n Normalizer) {
	key := strings.ToLower(n.Source())
	if _, ok := r.byName[key]; ok {
		panic("duplicate normalizer source: " + key)
	}
	r.byName[key] = n
	r.order = append(r.order, n)
}

// Get returns the normalizer for source, or nil.
func (r *Registry) Get(source string) Normalizer {
	return r.byName[strings.ToLower(source)]
}

// All returns every registered normalizer in registration order.
func (r *Registry) All() []Normalizer {
	return r.order
}

// DefaultRegistry returns a registry with all built-in sources, in the
// fixed order the pipeline processes them.
func DefaultRegistry(extractor extract.Extractor) *Registry {
	r := NewRegistry()
	r.Register(&CapitalOneNormalizer{})
	r.Register(&ChaseNormalizer{})
	r.Register(&WellsFargoNormalizer{})
	r.Register(&StatementNormalizer{Extractor: extractor})
	return r
}

var dateLayouts = []string{"01/02/2006", "2006-01-02"}

// parseDate accepts the date layouts seen across bank exports.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

// parseAmount parses a currency cell, tolerating $ and thousands commas.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// headerIndex maps trimmed column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(rec []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return "", false
	}
	return rec[i], true
}
