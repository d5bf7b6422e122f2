package parser

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak-overlay/internal/models"
)

const copiedTable = `
       1        3       -4        3   678  1347  1.32681      6927     i  g1       1 
       2        5       -1      -14   310   808  0.80747      1714     i  g1       1 
       3        5       -2      -11   330   931  0.86173     10627     i  g1       1 
`

func TestParseSingleRow(t *testing.T) {
	batch, err := ParsePeaks("1 3 -4 3 678 1347 1.32681 6927 i g1 1")
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())

	assert.Equal(t, models.PeakRecord{
		Index:     1,
		H:         3.0,
		K:         -4.0,
		L:         3.0,
		DetX:      678,
		DetY:      1347,
		DSpacing:  1.32681,
		Intensity: 6927.0,
		Indexing:  "i",
		Group:     "g1",
		Profile:   "1",
	}, batch.Records[0])
	assert.Equal(t, 6927.0, batch.MinIntensity)
	assert.Equal(t, 6927.0, batch.MaxIntensity)
}

func TestParseCopiedTable(t *testing.T) {
	batch, err := ParsePeaks(copiedTable)
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len())

	assert.Equal(t, 2, batch.Records[1].Index)
	assert.Equal(t, -14.0, batch.Records[1].L)
	assert.Equal(t, 330, batch.Records[2].DetX)
	assert.Equal(t, 931, batch.Records[2].DetY)
	assert.Equal(t, 1714.0, batch.MinIntensity)
	assert.Equal(t, 10627.0, batch.MaxIntensity)
}

func TestParseAcceptsWindowsLineEndings(t *testing.T) {
	batch, err := ParsePeaks("1 3 -4 3 678 1347 1.32681 6927 i g1 1\r\n2 5 -1 -14 310 808 0.80747 1714 I G1 1\r\n")
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, "I", batch.Records[1].Indexing)
}

func TestParseRejectsProse(t *testing.T) {
	for _, text := range []string{
		"hello world",
		"",
		"   \n\t\n",
		"1 2 3 4 5 6 7 8 9 10",
		"1 2 3 4 5 6 7 8 9 10 11 12",
		copiedTable + "\nsome trailing note\n",
	} {
		_, err := ParsePeaks(text)
		assert.ErrorIs(t, err, ErrNotPeakData, "input %q", text)
	}
}

func TestParseRejectsWholeBatchOnBadNumber(t *testing.T) {
	text := "1 3 -4 3 678 1347 1.32681 6927 i g1 1\n2 5 -1 -14 31.5 808 0.80747 1714 i g1 1\n"
	batch, err := ParsePeaks(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRow))
	assert.Contains(t, err.Error(), "row 2")
	assert.Zero(t, batch.Len())

	_, err = ParsePeaks("1 x -4 3 678 1347 1.32681 6927 i g1 1")
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestFormatPositions(t *testing.T) {
	batch, err := ParsePeaks(copiedTable)
	require.NoError(t, err)

	out := FormatPositions(batch.Records[:2])
	assert.Equal(t, "678\t1347\t3\t-4\t3\n310\t808\t5\t-1\t-14\n", out)

	// the exported table is never mistaken for a peak table
	_, err = ParsePeaks(out)
	assert.ErrorIs(t, err, ErrNotPeakData)
}
