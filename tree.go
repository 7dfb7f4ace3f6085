// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

import (
	"fmt"
	"io"
)

// Hooks customise how a Trie disposes of and prints the values it owns.
// Both are optional.
type Hooks[T any] struct {
	// Release is called once per stored value by Destroy.
	Release func(v T)
	// Print writes one entry for Show. Without it Show falls back to a
	// hex key dump.
	Print func(w io.Writer, e Entry[T]) error
}

// Trie indexes 32-bit keys and answers nearest-key queries. The zero
// value is not usable, create one with NewTrie. A Trie is not safe for
// concurrent use.
type Trie[T any] struct {
	root      *node[T]
	hooks     Hooks[T]
	size      int
	nodeCount int
	height    int
}

// WalkFn is used when walking the trie. Takes a
// key and value, returning if iteration should
// be terminated.
type WalkFn[T any] func(k uint32, v T) bool

// fallback is the search direction once the exact bit path is lost.
type fallback int

const (
	exact fallback = iota
	leftmost
	rightmost
)

func NewTrie[T any](hooks Hooks[T]) *Trie[T] {
	return &Trie[T]{hooks: hooks}
}

// Len is used to return the number of entries in the trie
func (t *Trie[T]) Len() int {
	return t.size
}

// NodeCount returns the number of branch points created by splits.
func (t *Trie[T]) NodeCount() int {
	return t.nodeCount
}

// Height returns the number of levels materialized so far, the root
// level included. It never exceeds KeyBits+1.
func (t *Trie[T]) Height() int {
	return t.height
}

// Insert stores value under key. It reports false, and leaves the trie
// untouched, when key is already present; the rejected value stays owned
// by the caller.
func (t *Trie[T]) Insert(key uint32, value T) bool {
	e := &Entry[T]{Key: key, Value: value}

	if t.root == nil {
		t.root = newLeaf(e, 1)
		t.size = 1
		t.height = 1
		return true
	}

	n := t.root
	for pos := KeyBits - 1; pos >= 0; pos-- {
		if n.isLeaf() {
			if n.entry.Key == key {
				return false
			}
			// The resident follows its own bit, not the new key's.
			n.pushDown(pos)
			t.nodeCount++
		}

		bit := bitAt(key, pos)
		child := n.getChild(bit)
		if child == nil {
			leaf := newLeaf(e, n.level+1)
			n.setChild(bit, leaf)
			t.size++
			if leaf.level > t.height {
				t.height = leaf.level
			}
			return true
		}
		n = child
	}

	// All bits consumed: only an identical key can live here.
	if n.isLeaf() && n.entry.Key == key {
		return false
	}
	invariantf("insert of %#x consumed %d bits without a free slot", key, KeyBits)
	return false
}

// Search returns the stored entry closest to key. The entry's key is not
// necessarily equal to key. It reports false only for an empty trie.
func (t *Trie[T]) Search(key uint32) (Entry[T], bool) {
	n, _ := t.walk(key)
	if n == nil {
		return Entry[T]{}, false
	}
	return *n.entry, true
}

// Get is used to look up a specific key, returning
// the value and if it was found
func (t *Trie[T]) Get(key uint32) (T, bool) {
	var zero T
	n, _ := t.walk(key)
	if n == nil || n.entry.Key != key {
		return zero, false
	}
	return n.entry.Value, true
}

// walk descends towards key and returns the leaf it settles on together
// with the number of branch steps taken.
func (t *Trie[T]) walk(key uint32) (*node[T], int) {
	n := t.root
	if n == nil {
		return nil, 0
	}

	mode := exact
	steps := 0
	for pos := KeyBits - 1; pos >= 0; pos-- {
		if n.isLeaf() {
			return n, steps
		}
		n, mode = n.next(bitAt(key, pos), mode)
		steps++
	}

	if n.isLeaf() {
		return n, steps
	}
	invariantf("search for %#x found no entry after %d bits", key, KeyBits)
	return nil, steps
}

// next picks the child to descend into. Once the wanted child is missing
// the walk switches to the fallback direction and keeps it for good.
func (n *node[T]) next(want uint32, mode fallback) (*node[T], fallback) {
	switch mode {
	case leftmost:
		want = 0
	case rightmost:
		want = 1
	}

	if ch := n.getChild(want); ch != nil {
		return ch, mode
	}

	if mode == exact {
		if want == 0 {
			mode = leftmost
		} else {
			mode = rightmost
		}
	}

	ch := n.getChild(1 - want)
	if ch == nil {
		invariantf("branch point on level %d has no children", n.level)
	}
	return ch, mode
}

// Minimum returns the entry with the smallest key.
func (t *Trie[T]) Minimum() (Entry[T], bool) {
	n := minimum(t.root)
	if n == nil {
		return Entry[T]{}, false
	}
	return *n.entry, true
}

// Maximum returns the entry with the largest key.
func (t *Trie[T]) Maximum() (Entry[T], bool) {
	n := maximum(t.root)
	if n == nil {
		return Entry[T]{}, false
	}
	return *n.entry, true
}

// Walk is used to walk the trie in ascending key order
func (t *Trie[T]) Walk(fn WalkFn[T]) {
	recursiveWalk(t.root, fn)
}

// Show writes every entry in ascending key order, using the Print hook
// when one was supplied.
func (t *Trie[T]) Show(w io.Writer) error {
	if _, err := io.WriteString(w, "keys: \n"); err != nil {
		return err
	}

	var err error
	t.Walk(func(k uint32, v T) bool {
		if t.hooks.Print != nil {
			err = t.hooks.Print(w, Entry[T]{Key: k, Value: v})
		} else {
			_, err = fmt.Fprintf(w, "0x%x: %v\n", k, v)
		}
		return err != nil
	})
	return err
}

// Destroy releases every stored value through the Release hook and
// empties the trie. The trie can be reused afterwards.
func (t *Trie[T]) Destroy() {
	destroyRec(t.root, t.hooks.Release)
	t.root = nil
	t.size = 0
	t.nodeCount = 0
	t.height = 0
}

// recursiveWalk is used to do an in-order walk of a node
// recursively. Returns true if the walk should be aborted
func recursiveWalk[T any](n *node[T], fn WalkFn[T]) bool {
	if n == nil {
		return false
	}
	if recursiveWalk(n.getChild(0), fn) {
		return true
	}
	if n.isLeaf() && fn(n.entry.Key, n.entry.Value) {
		return true
	}
	return recursiveWalk(n.getChild(1), fn)
}

func destroyRec[T any](n *node[T], release func(T)) {
	if n == nil {
		return
	}
	for i, ch := range n.children {
		destroyRec(ch, release)
		n.children[i] = nil
	}
	if n.entry != nil {
		if release != nil {
			release(n.entry.Value)
		}
		n.entry = nil
	}
}
