// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package bittrie implements a binary trie over 32-bit keys that answers
// nearest-key queries.
//
// Keys branch on their bits from the most significant down. A stored entry
// sits as high in the trie as its key allows: a new key that collides with
// a resident leaf pushes the resident down one level at a time until the
// two keys part. Search follows the query's bits and, once the wanted
// branch is missing, keeps to the leftmost or rightmost side of what is
// left, so any query settles on a stored entry. Inserting both ends of a
// labelled range therefore lets addresses inside the range resolve to one
// of its boundaries.
//
// A Trie is not safe for concurrent use.
package bittrie
