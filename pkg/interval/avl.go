package interval

type avlBalancer struct{}

// inserted rotates at the first ancestor of n that went out of balance. The
// rotation case is chosen by where the new key went below the heavy child.
func (avlBalancer) inserted(t *Tree, n *node) {
	// Colors mean nothing here; keep every node black.
	n.color = black
	for p := n.parent; p != nil; p = p.parent {
		p.update()
		switch bf := p.balanceFactor(); {
		case bf > 1:
			if n.key.Less(p.left.key) {
				p = t.rotateRight(p)
			} else {
				t.rotateLeft(p.left)
				p = t.rotateRight(p)
			}
		case bf < -1:
			if !n.key.Less(p.right.key) {
				p = t.rotateLeft(p)
			} else {
				t.rotateRight(p.right)
				p = t.rotateLeft(p)
			}
		default:
			continue
		}
		// A single fix restores the subtree's pre-insert height, so the
		// remaining ancestors only need their cached values refreshed.
		for a := p.parent; a != nil; a = a.parent {
			a.update()
		}
		return
	}
}

// removed rebalances every ancestor of the removal point; a deletion may
// need rotations at several levels.
func (avlBalancer) removed(t *Tree, r removal) {
	for p := r.parent; p != nil; p = p.parent {
		p.update()
		switch bf := p.balanceFactor(); {
		case bf > 1:
			if p.left.balanceFactor() < 0 {
				t.rotateLeft(p.left)
			}
			p = t.rotateRight(p)
		case bf < -1:
			if p.right.balanceFactor() > 0 {
				t.rotateRight(p.right)
			}
			p = t.rotateLeft(p)
		}
	}
}
