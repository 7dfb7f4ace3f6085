package bittrie

// rawIterator visits each of the nodes in the trie, branch points included,
// in pre-order. It keeps track of the bit path that leads to the current
// node, which is useful for dumping and for checking structure.
type rawIterator[T any] struct {
	// node is the starting node in the trie for the iterator.
	node *node[T]

	// stack keeps track of edges in the frontier.
	stack []rawStackEntry[T]

	// pos is the current position of the iterator.
	pos *node[T]

	// path holds the branch bits taken to reach pos, most significant
	// first. Only the top pos.level-1 bits are meaningful.
	path uint32
}

// rawStackEntry is used to keep track of the cumulative path as well as
// its associated edges in the frontier.
type rawStackEntry[T any] struct {
	path uint32
	node *node[T]
}

// Front returns the current node that has been iterated to.
func (i *rawIterator[T]) Front() *node[T] {
	return i.pos
}

// Path returns the effective bit path of the current node.
func (i *rawIterator[T]) Path() uint32 {
	return i.path
}

// Next advances the iterator to the next node.
func (i *rawIterator[T]) Next() {
	// Initialize our stack if needed.
	if i.stack == nil && i.node != nil {
		i.stack = []rawStackEntry[T]{
			{
				node: i.node,
			},
		}
		i.node = nil
	}

	for len(i.stack) > 0 {
		// Inspect the last element of the stack.
		n := len(i.stack)
		last := i.stack[n-1]
		elem := last.node

		i.stack = i.stack[:n-1]

		// Push the edges onto the frontier, right first so left pops first.
		// A node on level L branches on bit KeyBits-L.
		pos := KeyBits - elem.level
		for bit := 1; bit >= 0; bit-- {
			if ch := elem.children[bit]; ch != nil {
				i.stack = append(i.stack, rawStackEntry[T]{last.path | uint32(bit)<<uint(pos), ch})
			}
		}

		i.pos = elem
		i.path = last.path
		return
	}

	i.pos = nil
	i.path = 0
}
