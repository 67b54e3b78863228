package interval

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var balancings = []Balancing{RedBlack, AVL}

func forEachBalancing(t *testing.T, fn func(t *testing.T, b Balancing)) {
	for _, b := range balancings {
		b := b
		t.Run(b.String(), func(t *testing.T) {
			fn(t, b)
		})
	}
}

// checkInvariants verifies ordering, augmentation, parent links and the
// balance rules of the tree's policy.
func checkInvariants(t *testing.T, tree *Tree) {
	t.Helper()
	r := require.New(t)

	if tree.root == nil {
		r.Equal(0, tree.Len())
		return
	}
	r.Nil(tree.root.parent)

	var count int
	var check func(n *node) (max int64, height int, blackHeight int)
	check = func(n *node) (int64, int, int) {
		count++
		want := n.key.High
		var lh, rh, lbh, rbh int
		if n.left != nil {
			r.Same(n, n.left.parent, "broken parent link below %s", n.key)
			r.False(n.key.Less(n.left.key), "left child %s after %s", n.left.key, n.key)
			var m int64
			m, lh, lbh = check(n.left)
			if m > want {
				want = m
			}
		}
		if n.right != nil {
			r.Same(n, n.right.parent, "broken parent link below %s", n.key)
			r.False(n.right.key.Less(n.key), "right child %s before %s", n.right.key, n.key)
			var m int64
			m, rh, rbh = check(n.right)
			if m > want {
				want = m
			}
		}
		r.Equal(want, n.max, "stale max at %s", n.key)

		height := lh + 1
		if rh > lh {
			height = rh + 1
		}

		switch tree.Balancing() {
		case AVL:
			r.Equal(height, n.height, "stale height at %s", n.key)
			d := lh - rh
			r.True(d >= -1 && d <= 1, "unbalanced at %s: %d vs %d", n.key, lh, rh)
		case RedBlack:
			if n.color == red {
				r.Equal(black, colorOf(n.left), "red-red at %s", n.key)
				r.Equal(black, colorOf(n.right), "red-red at %s", n.key)
			}
			r.Equal(lbh, rbh, "black height differs at %s", n.key)
		}

		bh := lbh
		if n.color == black {
			bh++
		}
		return want, height, bh
	}
	check(tree.root)

	if tree.Balancing() == RedBlack {
		r.Equal(black, tree.root.color)
	}
	r.Equal(tree.Len(), count)

	all := tree.AllIntervals()
	r.Len(all, count)
	r.True(sort.SliceIsSorted(all, func(i, j int) bool { return all[i].Less(all[j]) }))
}

func mustInterval(t *testing.T, low, high int64) Interval {
	i, err := NewInterval(low, high)
	require.NoError(t, err)
	return i
}

func TestNewInterval(t *testing.T) {
	r := require.New(t)

	i, err := NewInterval(3, 7)
	r.NoError(err)
	r.Equal(Interval{Low: 3, High: 7}, i)
	r.Equal("[3, 7]", i.String())

	_, err = NewInterval(5, 5)
	r.NoError(err)

	_, err = NewInterval(8, 2)
	r.Error(err)
	r.True(errors.Is(err, ErrInvalidInterval))
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		a, b Interval
		want bool
	}{
		{Interval{1, 5}, Interval{5, 9}, true},
		{Interval{1, 5}, Interval{6, 9}, false},
		{Interval{4, 4}, Interval{1, 5}, true},
		{Interval{-3, -1}, Interval{-1, 0}, true},
		{Interval{10, 15}, Interval{20, 25}, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.a.Overlaps(tt.b), "%s vs %s", tt.a, tt.b)
		require.Equal(t, tt.want, tt.b.Overlaps(tt.a), "%s vs %s", tt.b, tt.a)
	}
}

func TestParseBalancing(t *testing.T) {
	r := require.New(t)

	for in, want := range map[string]Balancing{
		"":          RedBlack,
		"redblack":  RedBlack,
		"RB":        RedBlack,
		"red-black": RedBlack,
		" avl ":     AVL,
	} {
		b, err := ParseBalancing(in)
		r.NoError(err, in)
		r.Equal(want, b, in)
	}

	_, err := ParseBalancing("splay")
	r.Error(err)
}

func TestIntervalTree(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		r.Equal(b, tree.Balancing())

		for _, i := range []Interval{{1, 5}, {3, 7}, {2, 6}, {10, 15}} {
			r.NoError(tree.Insert(i))
			checkInvariants(t, tree)
		}

		res, found := tree.SearchOverlap(Interval{4, 4})
		r.True(found)
		r.Contains([]Interval{{1, 5}, {3, 7}, {2, 6}}, res)

		_, found = tree.SearchOverlap(Interval{20, 25})
		r.False(found)

		r.True(tree.Delete(Interval{3, 7}))
		checkInvariants(t, tree)
		r.Equal([]Interval{{1, 5}, {2, 6}, {10, 15}}, tree.AllIntervals())
	})
}

func TestInsertRejectsInvertedInterval(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		r.NoError(tree.Insert(Interval{1, 2}))

		err := tree.Insert(Interval{9, 3})
		r.True(errors.Is(err, ErrInvalidInterval))
		r.Equal([]Interval{{1, 2}}, tree.AllIntervals())
		r.Equal(1, tree.Len())
	})
}

func TestEmptyTree(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree()
	r.Equal(RedBlack, tree.Balancing())
	r.Equal(0, tree.Height())
	r.Equal(0, tree.Len())
	r.Empty(tree.AllIntervals())
	r.Empty(tree.FindAllOverlapping(Interval{0, 100}))

	_, found := tree.SearchOverlap(Interval{0, 100})
	r.False(found)
	r.False(tree.Delete(Interval{0, 1}))

	r.NoError(tree.Insert(Interval{4, 8}))
	r.Equal(0, tree.Height())
	r.NoError(tree.Insert(Interval{5, 6}))
	r.Equal(1, tree.Height())
}

func TestDeleteMissingIsNoop(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		for i := int64(0); i < 10; i++ {
			r.NoError(tree.Insert(Interval{i, i + 2}))
		}

		r.False(tree.Delete(Interval{3, 4}))
		r.False(tree.Delete(Interval{100, 200}))
		r.Equal(10, tree.Len())
		checkInvariants(t, tree)
	})
}

func TestDuplicates(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		r.NoError(tree.Insert(Interval{2, 4}))
		r.NoError(tree.Insert(Interval{1, 9}))
		r.NoError(tree.Insert(Interval{2, 4}))
		r.NoError(tree.Insert(Interval{2, 4}))
		checkInvariants(t, tree)
		r.Equal([]Interval{{1, 9}, {2, 4}, {2, 4}, {2, 4}}, tree.AllIntervals())

		r.True(tree.Delete(Interval{2, 4}))
		checkInvariants(t, tree)
		r.Equal([]Interval{{1, 9}, {2, 4}, {2, 4}}, tree.AllIntervals())
		r.True(tree.Contains(Interval{2, 4}))

		r.True(tree.Delete(Interval{2, 4}))
		r.True(tree.Delete(Interval{2, 4}))
		r.False(tree.Delete(Interval{2, 4}))
		r.False(tree.Contains(Interval{2, 4}))
		r.Equal([]Interval{{1, 9}}, tree.AllIntervals())
		checkInvariants(t, tree)
	})
}

func TestManyDuplicates(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		for i := 0; i < 200; i++ {
			r.NoError(tree.Insert(Interval{int64(i % 3), int64(i%3 + 1)}))
		}
		checkInvariants(t, tree)

		for i := 0; i < 200; i++ {
			r.True(tree.Delete(Interval{int64(i % 3), int64(i%3 + 1)}))
			checkInvariants(t, tree)
		}
		r.Equal(0, tree.Len())
	})
}

func TestSkewedInsertStaysLogarithmic(t *testing.T) {
	const n = 1 << 12

	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		for i := int64(1); i <= n; i++ {
			r.NoError(tree.Insert(Interval{i, i}))
		}
		checkInvariants(t, tree)

		// Red-black trees stay within 2*log2(n+1), AVL trees within
		// 1.44*log2(n+2).
		r.LessOrEqual(tree.Height(), 24)
		r.GreaterOrEqual(tree.Height(), 11)

		for i := int64(n); i >= 1; i-- {
			r.True(tree.Delete(Interval{i, i}))
			if i%512 == 0 {
				checkInvariants(t, tree)
				r.LessOrEqual(tree.Height(), 24)
			}
		}
		r.Equal(0, tree.Height())
	})
}

func TestRoundTrip(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)
		rnd := rand.New(rand.NewSource(7))

		tree := NewIntervalTree(WithBalancing(b))
		var ins []Interval
		for i := 0; i < 500; i++ {
			low := rnd.Int63n(1000)
			iv := Interval{low, low + rnd.Int63n(50)}
			ins = append(ins, iv)
			r.NoError(tree.Insert(iv))
		}
		checkInvariants(t, tree)

		rnd.Shuffle(len(ins), func(i, j int) { ins[i], ins[j] = ins[j], ins[i] })
		for _, iv := range ins {
			r.True(tree.Delete(iv), "missing %s", iv)
		}
		r.Empty(tree.AllIntervals())
		r.Equal(0, tree.Height())
		r.Equal(0, tree.Len())
	})
}

func bruteOverlaps(stored []Interval, q Interval) []Interval {
	var res []Interval
	for _, s := range stored {
		if s.Overlaps(q) {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Less(res[j]) })
	return res
}

func TestRandomizedAgainstBruteForce(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)
		rnd := rand.New(rand.NewSource(42))

		tree := NewIntervalTree(WithBalancing(b))
		var stored []Interval

		for step := 0; step < 3000; step++ {
			if len(stored) > 0 && rnd.Intn(3) == 0 {
				k := rnd.Intn(len(stored))
				r.True(tree.Delete(stored[k]))
				stored = append(stored[:k], stored[k+1:]...)
			} else {
				low := rnd.Int63n(500) - 250
				iv := Interval{low, low + rnd.Int63n(40)}
				r.NoError(tree.Insert(iv))
				stored = append(stored, iv)
			}

			if step%50 == 0 {
				checkInvariants(t, tree)
			}

			low := rnd.Int63n(600) - 300
			q := Interval{low, low + rnd.Int63n(20)}
			want := bruteOverlaps(stored, q)

			got, found := tree.SearchOverlap(q)
			r.Equal(len(want) > 0, found, fmt.Sprintf("step %d query %s", step, q))
			if found {
				r.True(got.Overlaps(q))
			}
			r.Equal(want, tree.FindAllOverlapping(q), "step %d query %s", step, q)
		}
		checkInvariants(t, tree)
	})
}

func TestDoStopsEarly(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree()
	for i := int64(0); i < 10; i++ {
		r.NoError(tree.Insert(mustInterval(t, i, i+1)))
	}

	var seen []Interval
	stopped := tree.Do(func(i Interval) bool {
		seen = append(seen, i)
		return len(seen) == 3
	})
	r.True(stopped)
	r.Equal([]Interval{{0, 1}, {1, 2}, {2, 3}}, seen)
}

func TestWalk(t *testing.T) {
	forEachBalancing(t, func(t *testing.T, b Balancing) {
		r := require.New(t)

		tree := NewIntervalTree(WithBalancing(b))
		for _, i := range []Interval{{1, 3}, {2, 9}, {3, 4}} {
			r.NoError(tree.Insert(i))
		}

		var views []NodeView
		tree.Walk(func(v NodeView) bool {
			views = append(views, v)
			return false
		})
		r.Len(views, 3)
		r.Equal(NodeView{Interval: Interval{2, 9}, Max: 9, Red: false, Depth: 0, Side: Root}, views[0])
		r.Equal(Interval{1, 3}, views[1].Interval)
		r.Equal(Left, views[1].Side)
		r.Equal(1, views[1].Depth)
		if b == AVL {
			for _, v := range views {
				r.False(v.Red, "AVL node %s tagged red", v.Interval)
			}
		}
		r.Equal(Interval{3, 4}, views[2].Interval)
		r.Equal(Right, views[2].Side)
		r.Equal(int64(4), views[2].Max)
	})
}
