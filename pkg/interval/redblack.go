package interval

type redBlackBalancer struct{}

func (redBlackBalancer) inserted(t *Tree, k *node) {
	for k != t.root && k.parent.color == red {
		p := k.parent
		g := p.parent
		if p == g.left {
			u := g.right
			if colorOf(u) == red {
				p.color = black
				u.color = black
				g.color = red
				k = g
				continue
			}
			if k == p.right {
				k = p
				t.rotateLeft(k)
				p = k.parent
			}
			p.color = black
			g.color = red
			t.rotateRight(g)
		} else {
			u := g.left
			if colorOf(u) == red {
				p.color = black
				u.color = black
				g.color = red
				k = g
				continue
			}
			if k == p.left {
				k = p
				t.rotateRight(k)
				p = k.parent
			}
			p.color = black
			g.color = red
			t.rotateLeft(g)
		}
	}
	t.root.color = black
}

// removed resolves the double-black left on r.child when a black node was
// unlinked.
func (redBlackBalancer) removed(t *Tree, r removal) {
	if r.color == red {
		return
	}

	x, p := r.child, r.parent
	for x != t.root && colorOf(x) == black {
		if x == p.left {
			w := p.right
			if colorOf(w) == red {
				w.color = black
				p.color = red
				t.rotateLeft(p)
				w = p.right
			}
			if colorOf(w.left) == black && colorOf(w.right) == black {
				w.color = red
				x = p
				p = x.parent
				continue
			}
			if colorOf(w.right) == black {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = p.right
			}
			w.color = p.color
			p.color = black
			w.right.color = black
			t.rotateLeft(p)
			x = t.root
		} else {
			w := p.left
			if colorOf(w) == red {
				w.color = black
				p.color = red
				t.rotateRight(p)
				w = p.left
			}
			if colorOf(w.left) == black && colorOf(w.right) == black {
				w.color = red
				x = p
				p = x.parent
				continue
			}
			if colorOf(w.left) == black {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = p.left
			}
			w.color = p.color
			p.color = black
			w.left.color = black
			t.rotateRight(p)
			x = t.root
		}
	}
	if x != nil {
		x.color = black
	}
}
