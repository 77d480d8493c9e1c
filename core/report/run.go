package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/dump"
)

// Page is the report entry for one requested page.
type Page struct {
	Name        string            `yaml:"name" json:"name"`
	Match       string            `yaml:"match" json:"match"`
	Row         *core.Row         `yaml:"row,omitempty" json:"row,omitempty"`
	Files       []string          `yaml:"files,omitempty" json:"files,omitempty"`
	Bytes       uint64            `yaml:"bytes" json:"bytes"`
	Diagnostics *core.Diagnostics `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	Error       string            `yaml:"error,omitempty" json:"error,omitempty"`
}

// Run summarizes a whole content run.
type Run struct {
	Input    string           `yaml:"input" json:"input"`
	Format   string           `yaml:"format" json:"format"`
	Encoding string           `yaml:"encoding" json:"encoding"`
	Started  time.Time        `yaml:"started" json:"started"`
	Finished time.Time        `yaml:"finished" json:"finished"`
	Parse    dump.Stats       `yaml:"parse" json:"parse"`
	Pages    []Page           `yaml:"pages" json:"pages"`
	Missing  []string         `yaml:"missing,omitempty" json:"missing,omitempty"`
	Totals   core.Diagnostics `yaml:"totals" json:"totals"`
}

// Add appends p and folds its diagnostics into the totals.
func (r *Run) Add(p Page) {
	if p.Diagnostics != nil {
		r.Totals.Add(*p.Diagnostics)
	}
	if p.Row == nil && p.Error == "" {
		r.Missing = append(r.Missing, p.Name)
	}
	r.Pages = append(r.Pages, p)
}

// Summary is a one-line account of the run.
func (r *Run) Summary() string {
	var (
		converted int
		failed    int
		size      uint64
	)
	for _, p := range r.Pages {
		switch {
		case p.Error != "":
			failed++
		case p.Row != nil:
			converted++
			size += p.Bytes
		}
	}
	return fmt.Sprintf("Converted %d pages (%s), %d missing, %d failed",
		converted, humanize.Bytes(size), len(r.Missing), failed)
}

// Encode writes r as YAML, or as indented JSON when asJSON is set.
func (r *Run) Encode(w io.Writer, asJSON bool) error {
	bw := bufio.NewWriter(w)
	if asJSON {
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return bw.Flush()
	}

	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return bw.Flush()
}

// WriteFile writes the report to path. A .json extension selects JSON,
// anything else YAML.
func (r *Run) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report file could not be written: %s (%w)", path, err)
	}
	asJSON := strings.EqualFold(filepath.Ext(path), ".json")
	if err := r.Encode(f, asJSON); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report file could not be written: %s (%w)", path, err)
	}
	return nil
}
