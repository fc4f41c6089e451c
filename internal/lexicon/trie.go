package lexicon

// node is one rune step in the form trie. Multi-word forms use ' ' between words.
type node struct {
	next    map[rune]*node
	entries []*Entry // entries whose form ends here, in table order
}

func newNode() *node {
	return &node{}
}

func (n *node) insert(form string, e *Entry) {
	cur := n
	for _, r := range form {
		if cur.next == nil {
			cur.next = make(map[rune]*node)
		}
		child, ok := cur.next[r]
		if !ok {
			child = newNode()
			cur.next[r] = child
		}
		cur = child
	}
	cur.entries = append(cur.entries, e)
}

// Probe is a position in a table's trie. It is a value; stepping returns a new
// probe and never changes the receiver.
type Probe struct {
	n     *node
	depth int // runes consumed
}

// Probe returns a probe at the trie root.
func (t *Table) Probe() Probe {
	return Probe{n: t.root}
}

// Step advances by one rune. ok is false when no form continues with r.
func (p Probe) Step(r rune) (Probe, bool) {
	if p.n == nil {
		return Probe{}, false
	}
	child, ok := p.n.next[r]
	if !ok {
		return Probe{}, false
	}
	return Probe{n: child, depth: p.depth + 1}, true
}

// StepString advances by every rune of s.
func (p Probe) StepString(s string) (Probe, bool) {
	ok := true
	for _, r := range s {
		if p, ok = p.Step(r); !ok {
			return Probe{}, false
		}
	}
	return p, ok
}

// Entries returns the entries whose form ends exactly at this probe.
func (p Probe) Entries() []*Entry {
	if p.n == nil {
		return nil
	}
	return p.n.entries
}

// CanSpace reports whether a multi-word form continues after this probe.
func (p Probe) CanSpace() bool {
	if p.n == nil {
		return false
	}
	_, ok := p.n.next[' ']
	return ok
}

// Valid reports whether the probe still sits on a trie node.
func (p Probe) Valid() bool { return p.n != nil }

// Depth is the number of runes consumed so far.
func (p Probe) Depth() int { return p.depth }
