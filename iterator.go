// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

// Iterator is used to iterate over the entries of a trie in ascending
// key order.
type Iterator[T any] struct {
	node  *node[T]
	stack []*node[T]
	// stackSet is false until the first Next or Seek call primes the stack.
	stackSet bool
}

// Iterator returns an ascending iterator positioned before the smallest key.
func (t *Trie[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{node: t.root}
}

func (i *Iterator[T]) Next() (uint32, T, bool) {
	var zero T

	if !i.stackSet {
		i.stackSet = true
		if i.node != nil {
			i.stack = []*node[T]{i.node}
		}
	}

	// Iterate through the stack until it's empty
	for len(i.stack) > 0 {
		n := i.stack[len(i.stack)-1]
		i.stack = i.stack[:len(i.stack)-1]

		if n.isLeaf() {
			return n.entry.Key, n.entry.Value, true
		}
		// Right goes in first so left pops first.
		for bit := 1; bit >= 0; bit-- {
			if ch := n.children[bit]; ch != nil {
				i.stack = append(i.stack, ch)
			}
		}
	}
	return 0, zero, false
}

// SeekLowerBound is used to seek the iterator to the smallest key that is
// greater or equal to the given key.
func (i *Iterator[T]) SeekLowerBound(key uint32) {
	i.stackSet = true
	i.stack = nil

	// Subtrees pushed earlier hold larger keys than the ones pushed later,
	// which keeps the stack in ascending pop order.
	n := i.node
	for pos := KeyBits - 1; n != nil; pos-- {
		if n.isLeaf() {
			if n.entry.Key >= key {
				i.stack = append(i.stack, n)
			}
			return
		}
		if pos < 0 {
			invariantf("lower bound seek for %#x ran past %d bits", key, KeyBits)
		}

		if bitAt(key, pos) == 0 {
			if right := n.getChild(1); right != nil {
				i.stack = append(i.stack, right)
			}
			n = n.getChild(0)
			continue
		}
		n = n.getChild(1)
	}
}
