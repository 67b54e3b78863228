package interval

type color bool

const (
	black color = false
	red   color = true
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

type node struct {
	key    Interval
	max    int64
	left   *node
	right  *node
	parent *node
	color  color
	// height counts nodes on the longest downward path. Only the AVL
	// balancer keeps it exact.
	height int
}

func newNode(key Interval) *node {
	return &node{key: key, max: key.High, color: red, height: 1}
}

// colorOf treats nil leaves as black.
func colorOf(n *node) color {
	if n == nil {
		return black
	}
	return n.color
}

func heightOf(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node) balanceFactor() int {
	return heightOf(n.left) - heightOf(n.right)
}

// update recomputes max and height from the node's current children.
func (n *node) update() {
	n.max = n.key.High
	n.height = 1
	if n.left != nil {
		if n.left.max > n.max {
			n.max = n.left.max
		}
		n.height = n.left.height + 1
	}
	if n.right != nil {
		if n.right.max > n.max {
			n.max = n.right.max
		}
		if n.right.height+1 > n.height {
			n.height = n.right.height + 1
		}
	}
}

func (n *node) min() *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

// depth returns the number of edges on the longest path below n.
func (n *node) depth() int {
	if n == nil {
		return -1
	}
	l, r := n.left.depth(), n.right.depth()
	if l > r {
		return l + 1
	}
	return r + 1
}
