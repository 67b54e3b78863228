// Package interval implements an interval tree on top of a self-balancing
// binary search tree. Every node caches the largest high endpoint found in
// its subtree, which lets overlap queries skip whole subtrees.
//
// The tree is not safe for concurrent use.
package interval

import (
	"strings"

	"github.com/pkg/errors"
)

// Balancing selects the rebalancing policy of a Tree.
type Balancing int

const (
	// RedBlack keeps the tree balanced with red-black coloring rules.
	RedBlack Balancing = iota
	// AVL keeps the heights of sibling subtrees within one of each other.
	AVL
)

func (b Balancing) String() string {
	switch b {
	case RedBlack:
		return "redblack"
	case AVL:
		return "avl"
	default:
		return "unknown"
	}
}

// ParseBalancing converts a policy name such as "redblack", "rb" or "avl".
func ParseBalancing(s string) (Balancing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "redblack", "red-black", "rb":
		return RedBlack, nil
	case "avl":
		return AVL, nil
	default:
		return RedBlack, errors.Errorf("unknown balancing %q", s)
	}
}

// balancer restores the balance invariant after the shared BST code changed
// the shape of the tree. Augmented max values are already correct when it is
// called.
type balancer interface {
	inserted(t *Tree, n *node)
	removed(t *Tree, r removal)
}

// removal describes the spot left behind by an unlinked node.
type removal struct {
	// child took the place of the node that physically left the tree; it may
	// be nil.
	child *node
	// parent is child's parent after the unlink.
	parent *node
	// color is the color of the node that physically left the tree.
	color color
}

// Option configures a Tree.
type Option func(*Tree)

// WithBalancing picks the rebalancing policy. The default is RedBlack.
func WithBalancing(b Balancing) Option {
	return func(t *Tree) {
		t.balancing = b
	}
}

// Tree is an augmented interval tree holding a multiset of intervals.
type Tree struct {
	root      *node
	size      int
	balancing Balancing
	bal       balancer
}

// NewIntervalTree returns an empty tree.
func NewIntervalTree(opts ...Option) *Tree {
	t := &Tree{}
	for _, o := range opts {
		o(t)
	}
	switch t.balancing {
	case AVL:
		t.bal = avlBalancer{}
	default:
		t.balancing = RedBlack
		t.bal = redBlackBalancer{}
	}
	return t
}

// Balancing returns the policy the tree was created with.
func (t *Tree) Balancing() Balancing {
	return t.balancing
}

// Len returns the number of stored intervals.
func (t *Tree) Len() int {
	return t.size
}

// Height returns the number of edges on the longest root-to-leaf path. Both
// an empty tree and a single node have height 0.
func (t *Tree) Height() int {
	if t.root == nil {
		return 0
	}
	return t.root.depth()
}

// Insert adds i to the tree. Equal intervals are kept as separate entries.
func (t *Tree) Insert(i Interval) error {
	if err := i.Validate(); err != nil {
		return err
	}

	n := newNode(i)

	var parent *node
	cur := t.root
	for cur != nil {
		parent = cur
		if i.Less(cur.key) {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}

	n.parent = parent
	switch {
	case parent == nil:
		t.root = n
	case i.Less(parent.key):
		parent.left = n
	default:
		parent.right = n
	}
	t.size++

	for p := parent; p != nil; p = p.parent {
		p.update()
	}

	t.bal.inserted(t, n)
	return nil
}

// Delete removes one interval equal to i and reports whether one was found.
// Deleting an interval that is not stored is a no-op.
func (t *Tree) Delete(i Interval) bool {
	z := t.find(i)
	if z == nil {
		return false
	}

	r := t.unlink(z)
	t.size--

	for p := r.parent; p != nil; p = p.parent {
		p.update()
	}

	t.bal.removed(t, r)
	return true
}

// Contains reports whether an interval equal to i is stored.
func (t *Tree) Contains(i Interval) bool {
	return t.find(i) != nil
}

func (t *Tree) find(i Interval) *node {
	n := t.root
	for n != nil {
		if n.key == i {
			return n
		}
		if i.Less(n.key) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil
}

// unlink detaches z from the tree. When z has two children its in-order
// successor takes its place and the successor's old spot is what gets
// removed.
func (t *Tree) unlink(z *node) removal {
	switch {
	case z.left == nil:
		r := removal{child: z.right, parent: z.parent, color: z.color}
		t.transplant(z, z.right)
		return r
	case z.right == nil:
		r := removal{child: z.left, parent: z.parent, color: z.color}
		t.transplant(z, z.left)
		return r
	}

	y := z.right.min()
	r := removal{child: y.right, color: y.color}
	if y.parent == z {
		r.parent = y
	} else {
		r.parent = y.parent
		t.transplant(y, y.right)
		y.right = z.right
		y.right.parent = y
	}
	t.transplant(z, y)
	y.left = z.left
	y.left.parent = y
	y.color = z.color
	y.height = z.height

	z.left, z.right, z.parent = nil, nil, nil
	return r
}

// transplant puts v where u hangs from u's parent.
func (t *Tree) transplant(u, v *node) {
	t.replaceChild(u.parent, u, v)
	if v != nil {
		v.parent = u.parent
	}
}

func (t *Tree) replaceChild(parent, old, n *node) {
	switch {
	case parent == nil:
		t.root = n
	case parent.left == old:
		parent.left = n
	default:
		parent.right = n
	}
}

// (a,(b,c)y)x -rotL-> ((a,b)x,c)y
func (t *Tree) rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.left = x
	x.parent = y

	x.update()
	y.update()
	return y
}

// ((a,b)y,c)x -rotR-> (a,(b,c)x)y
func (t *Tree) rotateRight(x *node) *node {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.right = x
	x.parent = y

	x.update()
	y.update()
	return y
}

// SearchOverlap returns some stored interval overlapping q. Which one is
// returned when several overlap is unspecified.
func (t *Tree) SearchOverlap(q Interval) (Interval, bool) {
	n := t.root
	for n != nil {
		if n.key.Overlaps(q) {
			return n.key, true
		}
		if n.left != nil && n.left.max >= q.Low {
			n = n.left
		} else {
			n = n.right
		}
	}
	return Interval{}, false
}

// FindAllOverlapping returns every stored interval overlapping q in order.
func (t *Tree) FindAllOverlapping(q Interval) []Interval {
	var res []Interval
	t.root.collectOverlapping(q, &res)
	return res
}

func (n *node) collectOverlapping(q Interval, res *[]Interval) {
	if n == nil || n.max < q.Low {
		return
	}
	n.left.collectOverlapping(q, res)
	if n.key.Overlaps(q) {
		*res = append(*res, n.key)
	}
	// Everything on the right starts at or after n.key.Low.
	if n.key.Low <= q.High {
		n.right.collectOverlapping(q, res)
	}
}

// AllIntervals returns the stored intervals sorted by (Low, High).
func (t *Tree) AllIntervals() []Interval {
	res := make([]Interval, 0, t.size)
	t.Do(func(i Interval) bool {
		res = append(res, i)
		return false
	})
	return res
}

// Do calls fn on every interval in order until fn returns true. It reports
// whether the iteration was stopped early.
func (t *Tree) Do(fn func(Interval) bool) bool {
	return t.root.do(fn)
}

func (n *node) do(fn func(Interval) bool) bool {
	if n == nil {
		return false
	}
	if n.left.do(fn) || fn(n.key) {
		return true
	}
	return n.right.do(fn)
}
