// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

// Entry is a stored key and the value inserted with it.
type Entry[T any] struct {
	Key   uint32
	Value T
}

// node is one materialized level of the trie. After any completed
// operation it either holds an entry or has at least one child, never both.
type node[T any] struct {
	// children are indexed by key bit: 0 is left, 1 is right.
	children [2]*node[T]
	entry    *Entry[T]
	// level is 1 for the root and grows by one per branch step.
	level int
}

func newLeaf[T any](e *Entry[T], level int) *node[T] {
	return &node[T]{
		entry: e,
		level: level,
	}
}

func (n *node[T]) isLeaf() bool {
	return n.entry != nil
}

func (n *node[T]) getChild(bit uint32) *node[T] {
	return n.children[bit]
}

func (n *node[T]) setChild(bit uint32, child *node[T]) {
	n.children[bit] = child
}

func (n *node[T]) getNumChildren() int {
	num := 0
	for _, ch := range n.children {
		if ch != nil {
			num++
		}
	}
	return num
}

// pushDown moves the resident entry one level down, on the branch picked by
// the resident key's bit at pos. The node becomes a pure branch point.
func (n *node[T]) pushDown(pos int) {
	resident := n.entry
	n.setChild(bitAt(resident.Key, pos), newLeaf(resident, n.level+1))
	n.entry = nil
}

func minimum[T any](n *node[T]) *node[T] {
	if n == nil {
		return nil
	}
	for !n.isLeaf() {
		if ch := n.getChild(0); ch != nil {
			n = ch
			continue
		}
		n = n.getChild(1)
	}
	return n
}

func maximum[T any](n *node[T]) *node[T] {
	if n == nil {
		return nil
	}
	for !n.isLeaf() {
		if ch := n.getChild(1); ch != nil {
			n = ch
			continue
		}
		n = n.getChild(0)
	}
	return n
}
