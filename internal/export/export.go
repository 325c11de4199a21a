package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/storage/models"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
	// MinUSD drops contributors below this amount.
	MinUSD float64
}

type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger.Named("export"), now: time.Now}
}

// ContributorSummary is the header of a contributor export.
type ContributorSummary struct {
	Contributors int     `json:"contributors"`
	TotalUSD     float64 `json:"total_usd"`
	LargestUSD   float64 `json:"largest_usd"`
	AverageUSD   float64 `json:"average_usd"`
	TopTenShare  float64 `json:"top_ten_share"`
}

// Summarize computes totals over already ranked shares.
func Summarize(shares []metrics.ContributorShare) ContributorSummary {
	s := ContributorSummary{Contributors: len(shares)}
	if len(shares) == 0 {
		return s
	}
	for i, c := range shares {
		s.TotalUSD += c.ContributionUSD
		if i < 10 {
			s.TopTenShare += c.Percentage
		}
		s.LargestUSD = max(s.LargestUSD, c.ContributionUSD)
	}
	s.AverageUSD = s.TotalUSD / float64(len(shares))
	return s
}

// ExportContributors writes the ranked contributor list to a file in OutputDir
// and returns its path.
func (e *Exporter) ExportContributors(shares []metrics.ContributorShare, opts ExportOptions) (string, error) {
	var filtered []metrics.ContributorShare
	for _, c := range shares {
		if c.ContributionUSD >= opts.MinUSD {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return "", fmt.Errorf("no contributors match the export criteria")
	}

	path, err := e.write(opts, "contributors", func(w io.Writer) error {
		return WriteContributors(w, opts.Format, filtered, e.now())
	})
	if err != nil {
		return "", err
	}
	e.logger.Info("Contributors exported",
		zap.String("file", path),
		zap.Int("count", len(filtered)),
		zap.String("format", string(opts.Format)))
	return path, nil
}

// ExportSnapshots writes recorded presale history to a file in OutputDir.
func (e *Exporter) ExportSnapshots(snaps []*models.PresaleSnapshot, opts ExportOptions) (string, error) {
	if len(snaps) == 0 {
		return "", fmt.Errorf("no snapshots to export")
	}
	path, err := e.write(opts, "presale_history", func(w io.Writer) error {
		return WriteSnapshots(w, opts.Format, snaps, e.now())
	})
	if err != nil {
		return "", err
	}
	e.logger.Info("Presale history exported",
		zap.String("file", path),
		zap.Int("count", len(snaps)),
		zap.String("format", string(opts.Format)))
	return path, nil
}

func (e *Exporter) write(opts ExportOptions, prefix string, fn func(io.Writer) error) (string, error) {
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return "", err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.%s", prefix, e.now().Format("20060102_150405"), opts.Format)
	path := filepath.Join(opts.OutputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := fn(file); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

var contributorHeaders = []string{"rank", "address", "contribution_usd", "percentage"}

// WriteContributors renders shares as CSV rows or as a JSON document with a summary.
func WriteContributors(w io.Writer, format ExportFormat, shares []metrics.ContributorShare, at time.Time) error {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(contributorHeaders); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
		for i, c := range shares {
			row := []string{
				strconv.Itoa(i + 1),
				c.Address,
				strconv.FormatFloat(c.ContributionUSD, 'f', 2, 64),
				strconv.FormatFloat(c.Percentage, 'f', 4, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write contributor: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatJSON:
		doc := struct {
			ExportTime   time.Time                  `json:"export_time"`
			Summary      ContributorSummary         `json:"summary"`
			Contributors []metrics.ContributorShare `json:"contributors"`
		}{at, Summarize(shares), shares}
		return encodeJSON(w, doc)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

var snapshotHeaders = []string{
	"taken_at", "seq", "phase", "presale_raised", "soft_cap", "hard_cap",
	"soft_cap_progress", "min_launch_price", "launch_price", "market_cap", "native_price_usd",
}

// WriteSnapshots renders presale history, oldest first in the order given.
func WriteSnapshots(w io.Writer, format ExportFormat, snaps []*models.PresaleSnapshot, at time.Time) error {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(snapshotHeaders); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
		f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
		for _, s := range snaps {
			row := []string{
				s.TakenAt.UTC().Format(time.RFC3339),
				strconv.FormatUint(s.Seq, 10),
				s.Phase,
				f(s.PresaleRaised),
				f(s.SoftCap),
				f(s.HardCap),
				f(s.SoftCapProgress),
				f(s.MinLaunchPrice),
				f(s.LaunchPrice),
				f(s.MarketCap),
				f(s.NativePriceUSD),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatJSON:
		doc := struct {
			ExportTime time.Time                 `json:"export_time"`
			Count      int                       `json:"count"`
			Snapshots  []*models.PresaleSnapshot `json:"snapshots"`
		}{at, len(snaps), snaps}
		return encodeJSON(w, doc)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
