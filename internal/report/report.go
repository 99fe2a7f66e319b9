// Package report renders a ratings table as CSV or as a terminal table.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charleschow/opp-adjust/internal/core/ratings"
)

// WriteCSV writes the rounded table with a header row.
func WriteCSV(w io.Writer, t *ratings.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// SaveCSV writes adj<season>.csv under dir and returns its path.
func SaveCSV(dir string, season int, t *ratings.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("adj%d.csv", season))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Print writes an aligned table; missing values show as "-".
func Print(w io.Writer, t *ratings.Table) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	recs := t.Records()
	for i, rec := range recs {
		cells := make([]string, len(rec))
		for j, c := range rec {
			if c == "" && i > 0 {
				c = "-"
			}
			cells[j] = c
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		if i == 0 {
			fmt.Fprintln(tw, strings.Repeat("----\t", len(rec)))
		}
	}
	return tw.Flush()
}

// PrintSummaries writes one line per category: homefield advantage and the
// selected penalty, or the failure.
func PrintSummaries(w io.Writer, t *ratings.Table) {
	for _, label := range t.Categories {
		fmt.Fprintf(w, "  %s\n", t.Summaries[label])
	}
}
