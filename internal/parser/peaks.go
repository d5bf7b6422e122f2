// Package parser turns peak tables copied from the crystallography analysis
// tool into typed peak records.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"peak-overlay/internal/models"
)

// ColumnCount is the number of whitespace-separated columns in a peak row:
// index h k l detx dety dspacing intensity indexing group profile.
const ColumnCount = 11

var (
	// ErrNotPeakData is returned for text that is not a peak table. This is
	// the expected outcome for most clipboard content.
	ErrNotPeakData = errors.New("not peak data")

	// ErrInvalidRow is returned when a row has the right shape but a numeric
	// column cannot be converted. The whole batch is rejected.
	ErrInvalidRow = errors.New("invalid peak row")
)

var rowPattern = regexp.MustCompile(`(?i)^[ \t]*` +
	strings.TrimSuffix(strings.Repeat(`(\S+)[ \t]+`, ColumnCount), `[ \t]+`) +
	`[ \t]*\r?$`)

// ParsePeaks validates text as a peak table and converts every row.
// Blank lines are ignored; any other line must be a peak row.
func ParsePeaks(text string) (models.ParsedBatch, error) {
	var batch models.ParsedBatch

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := rowPattern.FindStringSubmatch(line)
		if m == nil {
			return batch, ErrNotPeakData
		}
		rows = append(rows, m[1:])
	}
	if len(rows) == 0 {
		return batch, ErrNotPeakData
	}

	records := make([]models.PeakRecord, 0, len(rows))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, cols := range rows {
		rec, err := parseRow(cols)
		if err != nil {
			return models.ParsedBatch{}, errors.Wrapf(err, "row %d", i+1)
		}
		if rec.Intensity < lo {
			lo = rec.Intensity
		}
		if rec.Intensity > hi {
			hi = rec.Intensity
		}
		records = append(records, rec)
	}

	batch.Records = records
	batch.MinIntensity = lo
	batch.MaxIntensity = hi
	return batch, nil
}

func parseRow(cols []string) (models.PeakRecord, error) {
	var rec models.PeakRecord
	var err error

	ints := []struct {
		col int
		dst *int
	}{
		{0, &rec.Index},
		{4, &rec.DetX},
		{5, &rec.DetY},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(cols[f.col]); err != nil {
			return rec, errors.Wrapf(ErrInvalidRow, "column %d: %q is not an integer", f.col+1, cols[f.col])
		}
	}

	floatCols := []struct {
		col int
		dst *float64
	}{
		{1, &rec.H},
		{2, &rec.K},
		{3, &rec.L},
		{6, &rec.DSpacing},
		{7, &rec.Intensity},
	}
	for _, f := range floatCols {
		if *f.dst, err = strconv.ParseFloat(cols[f.col], 64); err != nil {
			return rec, errors.Wrapf(ErrInvalidRow, "column %d: %q is not a number", f.col+1, cols[f.col])
		}
	}

	rec.Indexing = cols[8]
	rec.Group = cols[9]
	rec.Profile = cols[10]
	return rec, nil
}

// FormatPositions renders detector positions and Miller indices as a
// tab-separated table, one peak per line.
func FormatPositions(records []models.PeakRecord) string {
	var sb strings.Builder
	for _, p := range records {
		h, k, l := p.Miller()
		sb.WriteString(strconv.Itoa(p.DetX))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(p.DetY))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(h))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(k))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(l))
		sb.WriteByte('\n')
	}
	return sb.String()
}
