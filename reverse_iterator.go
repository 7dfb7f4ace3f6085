// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

// ReverseIterator is used to iterate over the entries of a trie
// in descending key order
type ReverseIterator[T any] struct {
	node     *node[T]
	stack    []*node[T]
	stackSet bool
}

// ReverseIterator returns a descending iterator positioned after the
// largest key.
func (t *Trie[T]) ReverseIterator() *ReverseIterator[T] {
	return &ReverseIterator[T]{node: t.root}
}

// Previous returns the previous entry in reverse order
func (ri *ReverseIterator[T]) Previous() (uint32, T, bool) {
	var zero T

	if !ri.stackSet {
		ri.stackSet = true
		if ri.node != nil {
			ri.stack = []*node[T]{ri.node}
		}
	}

	for len(ri.stack) > 0 {
		n := ri.stack[len(ri.stack)-1]
		ri.stack = ri.stack[:len(ri.stack)-1]

		if n.isLeaf() {
			return n.entry.Key, n.entry.Value, true
		}
		for bit := 0; bit <= 1; bit++ {
			if ch := n.children[bit]; ch != nil {
				ri.stack = append(ri.stack, ch)
			}
		}
	}
	return 0, zero, false
}

// SeekReverseLowerBound is used to seek the iterator to the largest key that is
// lower or equal to the given key.
func (ri *ReverseIterator[T]) SeekReverseLowerBound(key uint32) {
	ri.stackSet = true
	ri.stack = nil

	n := ri.node
	for pos := KeyBits - 1; n != nil; pos-- {
		if n.isLeaf() {
			if n.entry.Key <= key {
				ri.stack = append(ri.stack, n)
			}
			return
		}
		if pos < 0 {
			invariantf("reverse lower bound seek for %#x ran past %d bits", key, KeyBits)
		}

		if bitAt(key, pos) == 1 {
			if left := n.getChild(0); left != nil {
				ri.stack = append(ri.stack, left)
			}
			n = n.getChild(1)
			continue
		}
		n = n.getChild(0)
	}
}
