package models

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Grid is a row-major 2-D intensity array. Row 0 is the bottom row of the
// displayed image, matching detector pixel coordinates.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid grid dimensions: %dx%d", width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}, nil
}

// NewGridFromData wraps existing row-major data.
func NewGridFromData(width, height int, data []float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid grid dimensions: %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, errors.Errorf("grid data length %d does not match %dx%d", len(data), width, height)
	}
	return &Grid{Width: width, Height: height, Data: data}, nil
}

func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.Width+x] = v
}

func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &Grid{Width: g.Width, Height: g.Height, Data: data}
}

// Rotate90 returns a copy rotated counter-clockwise by quarter turns
// (row/column semantics of numpy.rot90).
func (g *Grid) Rotate90(turns int) *Grid {
	turns = ((turns % 4) + 4) % 4
	out := g.Clone()
	for i := 0; i < turns; i++ {
		out = out.rotateOnce()
	}
	return out
}

func (g *Grid) rotateOnce() *Grid {
	// rows become columns: new[r][c] = old[c][W-1-r]
	rotated := &Grid{Width: g.Height, Height: g.Width, Data: make([]float64, len(g.Data))}
	for r := 0; r < rotated.Height; r++ {
		for c := 0; c < rotated.Width; c++ {
			rotated.Data[r*rotated.Width+c] = g.Data[c*g.Width+(g.Width-1-r)]
		}
	}
	return rotated
}

// FlipRows returns a copy with the row order reversed (numpy.flipud).
func (g *Grid) FlipRows() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Data: make([]float64, len(g.Data))}
	for r := 0; r < g.Height; r++ {
		copy(out.Data[r*g.Width:(r+1)*g.Width], g.Data[(g.Height-1-r)*g.Width:(g.Height-r)*g.Width])
	}
	return out
}

// FlipColumns returns a copy with each row reversed (numpy.fliplr).
func (g *Grid) FlipColumns() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Data: make([]float64, len(g.Data))}
	for r := 0; r < g.Height; r++ {
		row := g.Data[r*g.Width : (r+1)*g.Width]
		dst := out.Data[r*g.Width : (r+1)*g.Width]
		for c := range row {
			dst[c] = row[len(row)-1-c]
		}
	}
	return out
}

// Transform applies rotation first, then the flip, returning a new grid.
func (g *Grid) Transform(rotation Rotation, flip Flip) *Grid {
	out := g.Rotate90(rotation.QuarterTurns())
	switch flip {
	case FlipVertical:
		out = out.FlipRows()
	case FlipHorizontal:
		out = out.FlipColumns()
	}
	return out
}

// GridStats holds the intensity statistics used to seed the display range.
type GridStats struct {
	Min  float64
	Max  float64
	Mean float64
	// ClippedMean is the mean over all pixels after pixels above Mean are zeroed.
	ClippedMean float64
}

// ComputeStats scans the grid once for min/max/mean and once for the clipped mean.
func ComputeStats(g *Grid) GridStats {
	if g == nil || len(g.Data) == 0 {
		return GridStats{}
	}

	mean := stat.Mean(g.Data, nil)
	clipped := 0.0
	for _, v := range g.Data {
		if v <= mean {
			clipped += v
		}
	}

	return GridStats{
		Min:         floats.Min(g.Data),
		Max:         floats.Max(g.Data),
		Mean:        mean,
		ClippedMean: clipped / float64(len(g.Data)),
	}
}
