package geometry

import (
	"math"
	"testing"

	"github.com/hylla/gridcell/internal/domain"
)

func scenarioParams() domain.GridParams {
	return domain.GridParams{
		Cols:             12,
		ContainerWidth:   1200,
		Margin:           domain.Vec{X: 10, Y: 10},
		ContainerPadding: domain.Vec{X: 10, Y: 10},
		RowHeight:        30,
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestColumnWidthAndPlacement(t *testing.T) {
	p := scenarioParams()
	if got := ColumnWidth(p); !approxEqual(got, 89.17) {
		t.Fatalf("ColumnWidth() = %v, want 89.17", got)
	}
	box := GridToPixel(p, domain.GridRect{X: 0, Y: 0, W: 2, H: 1}, nil, nil)
	if !approxEqual(box.Width, 188.33) {
		t.Fatalf("unexpected width %v", box.Width)
	}
	if box.Left != 0 || box.Top != 0 {
		t.Fatalf("unexpected origin %#v", box)
	}
	if box.Height != 30 {
		t.Fatalf("unexpected height %v", box.Height)
	}
}

func TestGridToPixelOverrides(t *testing.T) {
	p := scenarioParams()
	r := domain.GridRect{X: 1, Y: 2, W: 3, H: 2}

	drag := &domain.Position{Top: 7, Left: 11}
	box := GridToPixel(p, r, drag, nil)
	if box.Top != 7 || box.Left != 11 {
		t.Fatalf("expected drag override origin, got %#v", box)
	}
	if want := SpanPx(3, ColumnWidth(p), 10); !approxEqual(box.Width, want) {
		t.Fatalf("expected grid-derived width %v, got %v", want, box.Width)
	}

	resize := &domain.PixelRect{Top: 3, Left: 4, Width: 55, Height: 66}
	box = GridToPixel(p, r, nil, resize)
	if box != *resize {
		t.Fatalf("expected resize override box, got %#v", box)
	}

	box = GridToPixel(p, r, drag, resize)
	if box.Top != 7 || box.Left != 11 || box.Width != 55 || box.Height != 66 {
		t.Fatalf("expected drag origin with resize size, got %#v", box)
	}
}

func TestGridToPixelCapsRowsAtMaxRows(t *testing.T) {
	p := scenarioParams()
	p.MaxRows = 4
	box := GridToPixel(p, domain.GridRect{X: 0, Y: 3, W: 1, H: 3}, nil, nil)
	if box.Height != 30 {
		t.Fatalf("expected one visible row, got height %v", box.Height)
	}
	box = GridToPixel(p, domain.GridRect{X: 0, Y: 5, W: 1, H: 1}, nil, nil)
	if box.Height != 0 {
		t.Fatalf("expected no visible rows, got height %v", box.Height)
	}
}

func TestGridPixelRoundTrip(t *testing.T) {
	params := map[string]domain.GridParams{
		"scenario": scenarioParams(),
		"no margins": {
			Cols: 7, ContainerWidth: 703, RowHeight: 17,
		},
		"wide margins": {
			Cols: 5, ContainerWidth: 1000, RowHeight: 40,
			Margin: domain.Vec{X: 25, Y: 5}, ContainerPadding: domain.Vec{X: 30, Y: 0},
		},
	}
	for name, p := range params {
		t.Run(name, func(t *testing.T) {
			for w := 1; w <= p.Cols; w++ {
				for x := 0; x+w <= p.Cols; x++ {
					for y := 0; y < 6; y++ {
						for h := 1; h < 4; h++ {
							r := domain.GridRect{X: x, Y: y, W: w, H: h}
							box := GridToPixel(p, r, nil, nil)
							gx, gy := PixelToGrid(p, box.Top, box.Left, w, h)
							gw, gh := SizePixelToGrid(p, box.Width, box.Height, gx, gy, domain.HandleSE)
							got := domain.GridRect{X: gx, Y: gy, W: gw, H: gh}
							if got != r {
								t.Fatalf("round trip %#v -> %#v -> %#v", r, box, got)
							}
						}
					}
				}
			}
		})
	}
}

func TestColumnWidthMonotonicInCols(t *testing.T) {
	p := scenarioParams()
	prev := math.Inf(1)
	for cols := 1; cols <= 48; cols++ {
		p.Cols = cols
		got := ColumnWidth(p)
		if got > prev {
			t.Fatalf("column width grew from %v to %v at cols=%d", prev, got, cols)
		}
		prev = got
	}
}

func TestPixelToGridClamps(t *testing.T) {
	p := scenarioParams()
	p.MaxRows = 10
	x, y := PixelToGrid(p, -500, -500, 2, 2)
	if x != 0 || y != 0 {
		t.Fatalf("expected clamp to origin, got (%d,%d)", x, y)
	}
	x, y = PixelToGrid(p, 10_000, 10_000, 2, 2)
	if x != 10 || y != 8 {
		t.Fatalf("expected clamp to (10,8), got (%d,%d)", x, y)
	}
}

func TestSizePixelToGridHandleBounds(t *testing.T) {
	p := scenarioParams()
	p.MaxRows = 10
	wide := SpanPx(12, ColumnWidth(p), 10)
	tall := SpanPx(10, 30, 10)

	w, h := SizePixelToGrid(p, wide, tall, 4, 3, domain.HandleSE)
	if w != 8 || h != 7 {
		t.Fatalf("east/south spans should stop at the container, got (%d,%d)", w, h)
	}
	w, h = SizePixelToGrid(p, wide, tall, 4, 3, domain.HandleNW)
	if w != 12 || h != 10 {
		t.Fatalf("west/north spans should use the whole axis, got (%d,%d)", w, h)
	}
	w, h = SizePixelToGrid(p, -50, -50, 0, 0, domain.HandleSE)
	if w != 0 || h != 0 {
		t.Fatalf("expected negative sizes clamped to zero, got (%d,%d)", w, h)
	}
}

func TestClampIdempotent(t *testing.T) {
	bounds := [][2]int{{0, 0}, {0, 10}, {-5, 5}, {3, 3}}
	for _, b := range bounds {
		for v := -20; v <= 20; v++ {
			once := Clamp(v, b[0], b[1])
			if once < b[0] || once > b[1] {
				t.Fatalf("Clamp(%d,%d,%d) = %d out of range", v, b[0], b[1], once)
			}
			if twice := Clamp(once, b[0], b[1]); twice != once {
				t.Fatalf("Clamp not idempotent for %d in %v: %d then %d", v, b, once, twice)
			}
		}
	}
	if got := Clamp(5, 3, 1); got != 3 {
		t.Fatalf("expected lower bound to win on inverted range, got %d", got)
	}
}
