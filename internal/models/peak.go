package models

import (
	"fmt"
	"strings"
)

// PeakRecord is one reflection copied from the peak table of the analysis tool.
type PeakRecord struct {
	Index     int
	H         float64
	K         float64
	L         float64
	DetX      int
	DetY      int
	DSpacing  float64
	Intensity float64
	Indexing  string
	Group     string
	Profile   string
}

// Miller returns the Miller indices truncated to integers.
func (p PeakRecord) Miller() (int, int, int) {
	return int(p.H), int(p.K), int(p.L)
}

// Caption renders the Miller indices as "(h, k, l)".
func (p PeakRecord) Caption() string {
	h, k, l := p.Miller()
	return fmt.Sprintf("(%d, %d, %d)", h, k, l)
}

// IsSkipped reports whether the indexing code carries the skipped marker.
func (p PeakRecord) IsSkipped() bool {
	return hasIndexingMarker(p.Indexing, "s")
}

// IsWrong reports whether the indexing code carries the wrong marker.
func (p PeakRecord) IsWrong() bool {
	return hasIndexingMarker(p.Indexing, "w")
}

// IsBad reports whether the peak is either wrong or skipped.
func (p PeakRecord) IsBad() bool {
	return hasIndexingMarker(p.Indexing, "ws")
}

func hasIndexingMarker(code, markers string) bool {
	return strings.ContainsAny(strings.ToLower(code), markers)
}

// ParsedBatch is the result of one accepted clipboard snapshot.
//
// MinIntensity and MaxIntensity are not guaranteed to be ordered; consumers
// go through NormalizeBounds before using them.
type ParsedBatch struct {
	Records      []PeakRecord
	MinIntensity float64
	MaxIntensity float64
}

// Len returns the number of records in the batch.
func (b ParsedBatch) Len() int {
	return len(b.Records)
}

// Clone deep-copies the batch so the receiver can be retained safely.
func (b ParsedBatch) Clone() ParsedBatch {
	records := make([]PeakRecord, len(b.Records))
	copy(records, b.Records)
	return ParsedBatch{
		Records:      records,
		MinIntensity: b.MinIntensity,
		MaxIntensity: b.MaxIntensity,
	}
}

// NormalizeBounds orders a raw (a, b) pair and widens a degenerate range by one.
func NormalizeBounds(a, b float64) (float64, float64) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}
