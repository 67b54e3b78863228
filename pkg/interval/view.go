package interval

// Side tells which child of its parent a node is.
type Side int

const (
	Root Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return "root"
	}
}

// NodeView is a read-only snapshot of one node, for callers that draw the
// tree.
type NodeView struct {
	Interval Interval
	Max      int64
	// Red is always false for AVL trees.
	Red   bool
	Depth int
	Side  Side
}

// Walk visits every node in pre-order until fn returns true.
func (t *Tree) Walk(fn func(NodeView) bool) {
	t.root.walk(0, Root, fn)
}

func (n *node) walk(depth int, side Side, fn func(NodeView) bool) bool {
	if n == nil {
		return false
	}
	v := NodeView{
		Interval: n.key,
		Max:      n.max,
		Red:      n.color == red,
		Depth:    depth,
		Side:     side,
	}
	if fn(v) {
		return true
	}
	return n.left.walk(depth+1, Left, fn) || n.right.walk(depth+1, Right, fn)
}
