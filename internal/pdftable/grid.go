// Package pdftable extracts the ruled table on a PDF page into a grid of cell text.
package pdftable

import (
	"math"
	"sort"
	"strings"
)

// Grid is a table as rows of cell text, top row first. Rows may differ in length.
type Grid [][]string

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cell returns the text at (row, col) and whether the position exists.
func (g Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g) {
		return "", false
	}
	if col < 0 || col >= len(g[row]) {
		return "", false
	}
	return g[row][col], true
}

// Glyph is one shown character in page space (origin bottom-left, y up).
type Glyph struct {
	X, Y float64
	W    float64
	Size float64
	S    string
}

// Rule is a filled or stroked rectangle on the page. Thin rectangles are table lines.
type Rule struct {
	X0, Y0, X1, Y1 float64
}

// Options tunes how rules and glyphs are snapped into a grid.
type Options struct {
	// SnapTolerance merges line positions closer than this many points.
	SnapTolerance float64
	// LineThickness is the maximum extent of a rectangle treated as a single line.
	LineThickness float64
}

// DefaultOptions returns tolerances that suit typical office-exported PDFs.
func DefaultOptions() Options {
	return Options{SnapTolerance: 3, LineThickness: 2}
}

// BuildGrid assigns glyphs to the cells bounded by the page's ruling lines.
// Bands not separated by a rule form one merged cell whose text sits at its
// top-left grid position, leaving the rest of the region empty. With fewer than
// two rulings in either direction it falls back to grouping glyphs by text
// lines and aligned word starts.
func BuildGrid(glyphs []Glyph, rules []Rule, opts Options) Grid {
	if opts.SnapTolerance <= 0 {
		opts.SnapTolerance = DefaultOptions().SnapTolerance
	}
	if opts.LineThickness <= 0 {
		opts.LineThickness = DefaultOptions().LineThickness
	}

	verticals, horizontals := segments(rules, opts.LineThickness)
	xs := snap(positions(verticals), opts.SnapTolerance)
	ys := snap(positions(horizontals), opts.SnapTolerance)
	if len(xs) < 2 || len(ys) < 2 {
		return textGrid(glyphs)
	}

	// Rows run top-down, so row boundaries are taken from the highest y first.
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	nRows, nCols := len(ys)-1, len(xs)-1
	regions := newRegions(nRows, nCols)
	tol := opts.SnapTolerance
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if j+1 < nCols && !covered(verticals, xs[j+1], ys[i+1], ys[i], tol) {
				regions.union(i, j, i, j+1)
			}
			if i+1 < nRows && !covered(horizontals, ys[i+1], xs[j], xs[j+1], tol) {
				regions.union(i, j, i+1, j)
			}
		}
	}

	cells := make([][][]Glyph, nRows)
	for i := range cells {
		cells[i] = make([][]Glyph, nCols)
	}

	for _, g := range glyphs {
		cx := g.X + g.W/2
		cy := g.Y + g.Size*0.3
		row := rowIndex(ys, cy)
		col := colIndex(xs, cx)
		if row < 0 || col < 0 {
			continue
		}
		row, col = regions.origin(row, col)
		cells[row][col] = append(cells[row][col], g)
	}

	grid := make(Grid, nRows)
	for i := range cells {
		grid[i] = make([]string, nCols)
		for j := range cells[i] {
			grid[i][j] = joinGlyphs(cells[i][j])
		}
	}
	return grid
}

// segment is a ruling line: pos is its x (vertical) or y (horizontal),
// lo and hi bound its extent along the other axis.
type segment struct {
	pos, lo, hi float64
}

// segments splits rules into vertical and horizontal lines. A box contributes its four sides.
func segments(rules []Rule, thick float64) (verticals, horizontals []segment) {
	for _, r := range rules {
		x0, x1 := math.Min(r.X0, r.X1), math.Max(r.X0, r.X1)
		y0, y1 := math.Min(r.Y0, r.Y1), math.Max(r.Y0, r.Y1)
		w, h := x1-x0, y1-y0
		switch {
		case w <= thick && h <= thick:
			// dot or empty path
		case w <= thick:
			verticals = append(verticals, segment{pos: (x0 + x1) / 2, lo: y0, hi: y1})
		case h <= thick:
			horizontals = append(horizontals, segment{pos: (y0 + y1) / 2, lo: x0, hi: x1})
		default:
			verticals = append(verticals, segment{pos: x0, lo: y0, hi: y1}, segment{pos: x1, lo: y0, hi: y1})
			horizontals = append(horizontals, segment{pos: y0, lo: x0, hi: x1}, segment{pos: y1, lo: x0, hi: x1})
		}
	}
	return verticals, horizontals
}

func positions(segs []segment) []float64 {
	out := make([]float64, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.pos)
	}
	return out
}

// covered reports whether a line at pos spans the midpoint of [a, b].
func covered(segs []segment, pos, a, b, tol float64) bool {
	mid := (a + b) / 2
	for _, s := range segs {
		if math.Abs(s.pos-pos) <= tol && s.lo-tol <= mid && mid <= s.hi+tol {
			return true
		}
	}
	return false
}

// regions is a union-find over grid bands; each set is rooted at its top-left band.
type regions struct {
	cols   int
	parent []int
}

func newRegions(rows, cols int) *regions {
	r := &regions{cols: cols, parent: make([]int, rows*cols)}
	for i := range r.parent {
		r.parent[i] = i
	}
	return r
}

func (r *regions) find(i int) int {
	for r.parent[i] != i {
		r.parent[i] = r.parent[r.parent[i]]
		i = r.parent[i]
	}
	return i
}

func (r *regions) union(r0, c0, r1, c1 int) {
	a, b := r.find(r0*r.cols+c0), r.find(r1*r.cols+c1)
	if a == b {
		return
	}
	// The lower root is nearer the top-left: rows first, then columns.
	if b < a {
		a, b = b, a
	}
	r.parent[b] = a
}

// origin returns the grid position where the region holding (row, col) keeps its text.
func (r *regions) origin(row, col int) (int, int) {
	root := r.find(row*r.cols + col)
	return root / r.cols, root % r.cols
}

// snap sorts positions and merges runs closer than tol into their mean.
func snap(vals []float64, tol float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var out []float64
	sum, n := sorted[0], 1
	for _, v := range sorted[1:] {
		if v-sum/float64(n) <= tol {
			sum += v
			n++
			continue
		}
		out = append(out, sum/float64(n))
		sum, n = v, 1
	}
	return append(out, sum/float64(n))
}

// rowIndex finds the row band containing y; ys is sorted descending.
func rowIndex(ys []float64, y float64) int {
	for i := 0; i < len(ys)-1; i++ {
		if y <= ys[i] && y > ys[i+1] {
			return i
		}
	}
	return -1
}

// colIndex finds the column band containing x; xs is sorted ascending.
func colIndex(xs []float64, x float64) int {
	if x < xs[0] || x >= xs[len(xs)-1] {
		return -1
	}
	return sort.Search(len(xs), func(i int) bool { return xs[i] > x }) - 1
}

// joinGlyphs rebuilds cell text: glyphs on one baseline form a line, lines are newline-separated.
func joinGlyphs(glyphs []Glyph) string {
	if len(glyphs) == 0 {
		return ""
	}
	lines := groupLines(glyphs)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(lineText(line)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// groupLines clusters glyphs by baseline, top line first, each line ordered left to right.
func groupLines(glyphs []Glyph) [][]Glyph {
	sorted := append([]Glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]Glyph
	for _, g := range sorted {
		n := len(lines)
		if n > 0 {
			ref := lines[n-1][0]
			if math.Abs(ref.Y-g.Y) <= math.Max(ref.Size, g.Size)*0.5 {
				lines[n-1] = append(lines[n-1], g)
				continue
			}
		}
		lines = append(lines, []Glyph{g})
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

// lineText concatenates a line's glyphs, inserting a space where the gap looks like one.
func lineText(line []Glyph) string {
	var sb strings.Builder
	for i, g := range line {
		if i > 0 {
			prev := line[i-1]
			if g.X-(prev.X+prev.W) > math.Max(g.Size, prev.Size)*0.25 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.S)
	}
	return sb.String()
}

// textGrid lays out unruled text: every text line is a row and aligned word starts define columns.
func textGrid(glyphs []Glyph) Grid {
	lines := groupLines(glyphs)
	if len(lines) == 0 {
		return nil
	}

	type word struct {
		x    float64
		text string
	}
	rows := make([][]word, len(lines))
	var starts []float64
	var maxSize float64
	for i, line := range lines {
		var cur []Glyph
		flush := func() {
			if len(cur) == 0 {
				return
			}
			rows[i] = append(rows[i], word{x: cur[0].X, text: lineText(cur)})
			starts = append(starts, cur[0].X)
			cur = nil
		}
		for j, g := range line {
			maxSize = math.Max(maxSize, g.Size)
			if j > 0 {
				prev := line[j-1]
				if g.X-(prev.X+prev.W) > math.Max(g.Size, prev.Size) {
					flush()
				}
			}
			cur = append(cur, g)
		}
		flush()
	}

	cols := snap(starts, math.Max(maxSize, 1))
	grid := make(Grid, len(rows))
	for i, words := range rows {
		grid[i] = make([]string, len(cols))
		for _, w := range words {
			j := nearest(cols, w.x)
			if grid[i][j] != "" {
				grid[i][j] += " "
			}
			grid[i][j] += w.text
		}
	}
	return grid
}

func nearest(vals []float64, x float64) int {
	best, dist := 0, math.Inf(1)
	for i, v := range vals {
		if d := math.Abs(v - x); d < dist {
			best, dist = i, d
		}
	}
	return best
}
