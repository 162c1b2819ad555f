package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// ExportVersion is written to every export. Version 1 files, which carry
// only key and value per entry, are still accepted by Import.
const ExportVersion = "2"

// ExportFormat is the JSON document written by Export.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is one cached translation. Hash, locales, service, format and
// model are split out of Key for readability; Key is authoritative.
type ExportEntry struct {
	Key     string `json:"key"`
	Hash    string `json:"hash,omitempty"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Service string `json:"service,omitempty"`
	Format  string `json:"format,omitempty"`
	Model   string `json:"model,omitempty"`
	Value   string `json:"value"`
}

// ExportOptions narrows an export. Empty fields match everything.
type ExportOptions struct {
	TargetLocale string
	Service      string
	Metadata     map[string]string
}

// parseKey splits a key of the form hash:source:target:service:format[:model],
// the layout fieldtl.CacheKey produces. Keys written before the format was
// added stop after the service. Other keys are exported with Key only.
func parseKey(key string) (ExportEntry, bool) {
	parts := strings.SplitN(key, ":", 6)
	if len(parts) < 4 || parts[0] == "" {
		return ExportEntry{Key: key}, false
	}
	e := ExportEntry{
		Key:     key,
		Hash:    parts[0],
		Source:  parts[1],
		Target:  parts[2],
		Service: parts[3],
	}
	if len(parts) > 4 {
		e.Format = parts[4]
	}
	if len(parts) > 5 {
		e.Model = parts[5]
	}
	return e, true
}

func (o ExportOptions) match(e ExportEntry, parsed bool) bool {
	if o.TargetLocale == "" && o.Service == "" {
		return true
	}
	if !parsed {
		return false
	}
	return (o.TargetLocale == "" || strings.EqualFold(e.Target, o.TargetLocale)) &&
		(o.Service == "" || e.Service == o.Service)
}

// Exporter writes the contents of a listable cache as JSON.
type Exporter struct {
	cache EntryLister
}

// NewExporter creates an exporter over cache.
func NewExporter(cache EntryLister) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the matching entries to w, sorted by key, and returns how
// many were written.
func (e *Exporter) Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error) {
	data, err := e.cache.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing cache entries: %w", err)
	}

	entries := make([]ExportEntry, 0, len(data))
	for key, value := range data {
		entry, parsed := parseKey(key)
		if !opts.match(entry, parsed) {
			continue
		}
		entry.Value = value
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	err = enc.Encode(ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   opts.Metadata,
	})
	if err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	return len(entries), nil
}

// ExportToFile is Export into a newly created file at path.
func (e *Exporter) ExportToFile(ctx context.Context, path string, opts ExportOptions) (int, error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}

	n, err := e.Export(ctx, f, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing file: %w", cerr)
	}
	return n, err
}

// Importer loads an export into a cache.
type Importer struct {
	cache TranslationCache
}

// NewImporter creates an importer into cache.
func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int // entries without a key
	Failed   int // entries the cache rejected
}

// Import reads an export from r and stores every entry. Entries the cache
// rejects are counted, not fatal.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}
	for _, entry := range export.Entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.Key == "" {
			result.Skipped++
			continue
		}
		if err := i.cache.Set(ctx, entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile is Import from the file at path.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}
