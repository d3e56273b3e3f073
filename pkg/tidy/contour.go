package tidy

// contour is the per-depth boundary of a packed subtree or sibling group.
//
// left and right are stored deepest level first, so the topmost level is the
// last element and a new parent level is an append. Stored values are raw;
// the real order at a level is raw + shift, which makes shifting a whole
// contour O(1).
type contour struct {
	left  []float64
	right []float64
	shift float64
}

func leafContour() *contour {
	return &contour{left: []float64{0}, right: []float64{0}}
}

func (c *contour) height() int { return len(c.left) }

// index maps depth k below the contour's top level to a slice index.
func (c *contour) index(k int) int { return len(c.left) - 1 - k }

func (c *contour) leftAt(k int) float64  { return c.left[c.index(k)] + c.shift }
func (c *contour) rightAt(k int) float64 { return c.right[c.index(k)] + c.shift }

// separation returns the smallest offset for next's top node, in c's
// coordinates, that keeps next at least 1 to the right of c at every shared
// depth.
func (c *contour) separation(next *contour) float64 {
	shared := min(c.height(), next.height())
	off := c.rightAt(0) + 1 - next.leftAt(0)
	for k := 1; k < shared; k++ {
		off = max(off, c.rightAt(k)+1-next.leftAt(k))
	}
	return off
}

// merge combines c with next placed at off and returns the result, reusing
// the taller contour's storage. Only the shared depths are touched.
func (c *contour) merge(next *contour, off float64) *contour {
	shared := min(c.height(), next.height())
	if c.height() >= next.height() {
		for k := 0; k < shared; k++ {
			c.right[c.index(k)] = next.rightAt(k) + off - c.shift
		}
		return c
	}

	next.shift += off
	for k := 0; k < shared; k++ {
		next.left[next.index(k)] = c.leftAt(k) - next.shift
	}
	return next
}

// lift recenters a sibling group on center and adds the parent level at 0.
func (c *contour) lift(center float64) *contour {
	c.shift -= center
	c.left = append(c.left, -c.shift)
	c.right = append(c.right, -c.shift)
	return c
}
