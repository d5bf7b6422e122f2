package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3 columns x 2 rows:
//
//	row 0: 1 2 3
//	row 1: 4 5 6
func sampleGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGridFromData(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	return g
}

func TestNormalizeBounds(t *testing.T) {
	lo, hi := NormalizeBounds(50, 10)
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 50.0, hi)

	lo, hi = NormalizeBounds(7, 7)
	assert.Equal(t, 7.0, lo)
	assert.Equal(t, 8.0, hi)

	lo, hi = NormalizeBounds(-3, 4)
	assert.Equal(t, -3.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestPeakRecordHelpers(t *testing.T) {
	p := PeakRecord{H: 3, K: -4.7, L: 3.2, Indexing: "i"}
	assert.Equal(t, "(3, -4, 3)", p.Caption())
	assert.False(t, p.IsBad())

	p.Indexing = "iS"
	assert.True(t, p.IsSkipped())
	assert.False(t, p.IsWrong())
	assert.True(t, p.IsBad())

	p.Indexing = "w"
	assert.True(t, p.IsWrong())
	assert.True(t, p.IsBad())
}

func TestParsedBatchCloneIsIndependent(t *testing.T) {
	b := ParsedBatch{Records: []PeakRecord{{Index: 1}}, MinIntensity: 1, MaxIntensity: 2}
	c := b.Clone()
	c.Records[0].Index = 99
	assert.Equal(t, 1, b.Records[0].Index)
	assert.Equal(t, 1, c.Len())
}

func TestGridRotate90(t *testing.T) {
	g := sampleGrid(t)

	r := g.Rotate90(1)
	assert.Equal(t, 2, r.Width)
	assert.Equal(t, 3, r.Height)
	// numpy.rot90([[1,2,3],[4,5,6]]) == [[3,6],[2,5],[1,4]]
	assert.Equal(t, []float64{3, 6, 2, 5, 1, 4}, r.Data)

	r2 := g.Rotate90(2)
	assert.Equal(t, []float64{6, 5, 4, 3, 2, 1}, r2.Data)

	full := g.Rotate90(4)
	assert.Equal(t, g.Data, full.Data)
	assert.Equal(t, g.Width, full.Width)

	// the source is never touched
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, g.Data)
}

func TestGridFlips(t *testing.T) {
	g := sampleGrid(t)
	assert.Equal(t, []float64{4, 5, 6, 1, 2, 3}, g.FlipRows().Data)
	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, g.FlipColumns().Data)
}

func TestGridTransformRotatesBeforeFlip(t *testing.T) {
	g := sampleGrid(t)
	out := g.Transform(Rotate90, FlipVertical)
	// rot90 then flipud: [[1,4],[2,5],[3,6]]
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.Data)

	same := g.Transform(Rotate0, FlipNone)
	assert.Equal(t, g.Data, same.Data)
	same.Data[0] = 100
	assert.Equal(t, 1.0, g.Data[0])
}

func TestNewGridRejectsBadShapes(t *testing.T) {
	_, err := NewGrid(0, 4)
	assert.Error(t, err)
	_, err = NewGridFromData(2, 2, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestComputeStats(t *testing.T) {
	g, err := NewGridFromData(2, 2, []float64{0, 2, 4, 10})
	require.NoError(t, err)

	s := ComputeStats(g)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 4.0, s.Mean)
	// pixels above the mean are zeroed: (0+2+4+0)/4
	assert.Equal(t, 1.5, s.ClippedMean)

	assert.Equal(t, GridStats{}, ComputeStats(nil))
}

func TestParseRotationAndFlip(t *testing.T) {
	r, err := ParseRotation("270")
	require.NoError(t, err)
	assert.Equal(t, Rotate270, r)
	assert.Equal(t, 3, r.QuarterTurns())

	_, err = ParseRotation("45")
	assert.Error(t, err)
	_, err = ParseRotation("ninety")
	assert.Error(t, err)

	f, err := ParseFlip("h")
	require.NoError(t, err)
	assert.Equal(t, FlipHorizontal, f)
	f, err = ParseFlip("None")
	require.NoError(t, err)
	assert.Equal(t, FlipNone, f)
	_, err = ParseFlip("diagonal")
	assert.Error(t, err)
}

func TestIntensityBoundsClamp(t *testing.T) {
	b := IntensityBounds{Low: -5, High: 500}.Clamp(0, 100)
	assert.Equal(t, IntensityBounds{Low: 0, High: 100}, b)

	b = IntensityBounds{Low: 80, High: 20}.Clamp(0, 100)
	assert.Equal(t, IntensityBounds{Low: 20, High: 80}, b)
}

func TestStyleCompleteness(t *testing.T) {
	var sym *SymbolStyle
	assert.False(t, sym.Complete())
	sym = &SymbolStyle{Shape: ShapeCircle, LineColor: "white"}
	assert.False(t, sym.Complete())
	sym.FillColor = "black"
	assert.True(t, sym.Complete())

	var caption *CaptionStyle
	assert.False(t, caption.Complete())
	caption = &CaptionStyle{Font: "Arial", FontSize: "1em", TextColor: "white"}
	assert.True(t, caption.Complete())
}

func TestImageRepositoryHistory(t *testing.T) {
	repo := NewImageRepository()
	assert.Nil(t, repo.Current())

	var first, last *ImageData
	for i := 0; i < 12; i++ {
		last = NewImageData("id", "/data/frame.tif", sampleGrid(t))
		last.LoadTime = 10 * time.Millisecond
		if first == nil {
			first = last
		}
		repo.SetCurrent(last)
	}

	assert.Same(t, last, repo.Current())
	history := repo.History()
	require.Len(t, history, 10)
	assert.Equal(t, last.Grid.Width, history[9].Width)
	assert.Equal(t, "/data/frame.tif", history[0].Path)

	stats := repo.GetImageStats()
	assert.True(t, stats.HasCurrent)
	assert.Equal(t, 12, stats.Loads)
	assert.Equal(t, 10, stats.HistorySize)
	assert.Equal(t, int64(len(last.Grid.Data)), stats.CurrentPixels)
	assert.Equal(t, 10*time.Millisecond, stats.AverageLoadTime)
	assert.Equal(t, 12, stats.Fields()["loads"])
	assert.Equal(t, "frame.tif", last.Name())

	// replaced images keep their grid; the repository just stops referencing it
	assert.NotNil(t, first.Grid)

	repo.Shutdown()
	assert.Nil(t, repo.Current())
	assert.Empty(t, repo.History())
}
