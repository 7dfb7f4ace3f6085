// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// Dump writes the trie structure, one node per line, to w.
func (t *Trie[T]) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "### size(%d), nodes(%d), height(%d)\n", t.size, t.nodeCount, t.height); err != nil {
		return err
	}

	it := &rawIterator[T]{node: t.root}
	for it.Next(); it.Front() != nil; it.Next() {
		if err := dumpNode(w, it.Front(), it.Path()); err != nil {
			return err
		}
	}
	return nil
}

// dumpString is just a wrapper for Dump.
func (t *Trie[T]) dumpString() string {
	w := new(strings.Builder)
	_ = t.Dump(w)
	return w.String()
}

func dumpNode[T any](w io.Writer, n *node[T], path uint32) error {
	indent := strings.Repeat(".", n.level-1)
	if n.isLeaf() {
		_, err := fmt.Fprintf(w, "%s[leaf] level: %d path: %s key: 0x%08x value: %v\n",
			indent, n.level, bitPath(path, n.level-1), n.entry.Key, n.entry.Value)
		return err
	}
	_, err := fmt.Fprintf(w, "%s[branch] level: %d path: %s children: %d\n",
		indent, n.level, bitPath(path, n.level-1), n.getNumChildren())
	return err
}
