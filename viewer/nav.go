package viewer

// Navigator tracks the current page, numbered from 1. Requests outside
// [1, count] are ignored.
type Navigator struct {
	current int
	count   int
}

// Reset starts over at page 1 of a document with count pages. A document
// without pages has no current page.
func (n *Navigator) Reset(count int) {
	n.count = max(count, 0)
	n.current = 0
	if n.count > 0 {
		n.current = 1
	}
}

// Current returns the current page, or 0 when there is none.
func (n *Navigator) Current() int {
	return n.current
}

func (n *Navigator) Count() int {
	return n.count
}

// Advance moves to the next page and reports whether the page changed.
func (n *Navigator) Advance() bool {
	if n.current < 1 || n.current >= n.count {
		return false
	}
	n.current++
	return true
}

// Retreat moves to the previous page and reports whether the page changed.
func (n *Navigator) Retreat() bool {
	if n.current <= 1 {
		return false
	}
	n.current--
	return true
}

// GoTo moves to page and reports whether the page changed.
func (n *Navigator) GoTo(page int) bool {
	if page < 1 || page > n.count || page == n.current {
		return false
	}
	n.current = page
	return true
}
