// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

// shelfPacker places rectangles on horizontal shelves, left to right. A
// shelf is as tall as the tallest rectangle it holds; when a rectangle fits
// on no shelf a new one is opened below the last.
type shelfPacker struct {
	width, height int
	gap           int
	shelves       []shelf
	usedArea      int
}

type shelf struct {
	y, height, x int
}

func newShelfPacker(width, height, gap int) *shelfPacker {
	return &shelfPacker{width: width, height: height, gap: gap}
}

// pack returns the top-left corner for a w x h rectangle, or ok == false
// when the atlas has no room left for it.
func (p *shelfPacker) pack(w, h int) (x, y int, ok bool) {
	if w > p.width || h > p.height {
		return -1, -1, false
	}
	pw := w + p.gap

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow taller.
			if i != len(p.shelves)-1 || s.y+h > p.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += pw
		p.usedArea += w * h
		return x, y, true
	}

	top := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		top = last.y + last.height + p.gap
	}
	if top+h > p.height {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: top, height: h, x: pw})
	p.usedArea += w * h
	return 0, top, true
}

// utilization returns the packed fraction of the atlas area.
func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
