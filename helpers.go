// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeyBits is the width of a key and the maximum number of branch steps
// any walk can take.
const KeyBits = 32

// ErrInvariant marks a structural defect inside the trie. It is only ever
// raised through a panic.
var ErrInvariant = errors.New("bittrie: structural invariant violated")

// bitAt returns bit pos of key, where pos 31 is the most significant bit.
func bitAt(key uint32, pos int) uint32 {
	return (key >> uint(pos)) & 1
}

func invariantf(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
}

// bitPath renders the first n bits of key, most significant first.
func bitPath(key uint32, n int) string {
	if n == 0 {
		return "-"
	}
	var sb strings.Builder
	for pos := KeyBits - 1; pos >= KeyBits-n; pos-- {
		sb.WriteString(strconv.Itoa(int(bitAt(key, pos))))
	}
	return sb.String()
}
