// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package bittrie

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/quick"

	"github.com/hashicorp/go-uuid"
	"github.com/stretchr/testify/require"
)

func TestTrie_Empty(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})

	_, ok := tr.Search(0x01020304)
	require.False(t, ok)
	_, ok = tr.Get(0)
	require.False(t, ok)
	_, ok = tr.Minimum()
	require.False(t, ok)
	_, ok = tr.Maximum()
	require.False(t, ok)
	require.Equal(t, 0, tr.Len())
	require.Equal(t, 0, tr.Height())
	require.Equal(t, 0, tr.NodeCount())

	var buf bytes.Buffer
	require.NoError(t, tr.Show(&buf))
	require.Equal(t, "keys: \n", buf.String())
}

func TestTrie_SingleEntryAnswersEverything(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	require.True(t, tr.Insert(0x0A000001, "only"))
	require.Equal(t, 1, tr.Len())
	require.Equal(t, 1, tr.Height())
	require.Equal(t, 0, tr.NodeCount())

	for _, k := range []uint32{0, 0x0A000001, 0x7FFFFFFF, 0xFFFFFFFF} {
		e, ok := tr.Search(k)
		require.True(t, ok)
		require.Equal(t, uint32(0x0A000001), e.Key)
		require.Equal(t, "only", e.Value)
	}
}

func TestTrie_ExtremesBecomeRootChildren(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	require.True(t, tr.Insert(0x00000000, "low"))
	require.True(t, tr.Insert(0xFFFFFFFF, "high"))

	require.Equal(t, 2, tr.Len())
	require.Equal(t, 2, tr.Height())
	require.Equal(t, 1, tr.NodeCount())
	require.False(t, tr.root.isLeaf())
	require.True(t, tr.root.getChild(0).isLeaf())
	require.True(t, tr.root.getChild(1).isLeaf())

	cases := []struct {
		query uint32
		want  uint32
	}{
		{0x00000001, 0x00000000},
		{0x7FFFFFFF, 0x00000000},
		{0x80000000, 0xFFFFFFFF},
		{0xFFFFFFFE, 0xFFFFFFFF},
	}
	for _, c := range cases {
		e, ok := tr.Search(c.query)
		require.True(t, ok)
		require.Equal(t, c.want, e.Key, "query %#x", c.query)
	}
	checkStructure(t, tr)
}

func TestTrie_DuplicateInsert(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc string
		keys []uint32
		dup  uint32
	}{
		{"root leaf", []uint32{42}, 42},
		{"shallow leaf", []uint32{0, 0xFFFFFFFF}, 0xFFFFFFFF},
		{"mid depth", []uint32{10, 12, 0x80000000}, 12},
		// 2 and 3 differ in the last bit, so both leaves sit below every
		// branch step and the duplicate is only found after the walk.
		{"full depth", []uint32{2, 3}, 3},
		{"full depth left", []uint32{2, 3}, 2},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tr := NewTrie[string](Hooks[string]{})
			for _, k := range c.keys {
				require.True(t, tr.Insert(k, fmt.Sprint(k)))
			}
			size, nodes, height := tr.Len(), tr.NodeCount(), tr.Height()

			require.False(t, tr.Insert(c.dup, "replacement"))

			require.Equal(t, size, tr.Len())
			require.Equal(t, nodes, tr.NodeCount())
			require.Equal(t, height, tr.Height())
			v, ok := tr.Get(c.dup)
			require.True(t, ok)
			require.Equal(t, fmt.Sprint(c.dup), v)
			checkStructure(t, tr)
		})
	}
}

func TestTrie_SplitKeepsResidents(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	require.True(t, tr.Insert(10, "ten"))
	require.True(t, tr.Insert(12, "twelve"))

	// 10 (1010) and 12 (1100) agree down to bit 3, one split per shared bit
	// plus the one where they part.
	require.Equal(t, 30, tr.NodeCount())
	require.Equal(t, 31, tr.Height())

	before := tr.NodeCount()
	require.True(t, tr.Insert(11, "eleven"))

	// 11 lands on 10's leaf and pushes it down twice, on bit 1 and bit 0.
	require.Equal(t, before+2, tr.NodeCount())
	require.Equal(t, KeyBits+1, tr.Height())
	require.Equal(t, 3, tr.Len())

	for k, want := range map[uint32]string{10: "ten", 11: "eleven", 12: "twelve"} {
		v, ok := tr.Get(k)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	checkStructure(t, tr)
}

func TestTrie_FallbackDeterminism(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	require.True(t, tr.Insert(2, "two"))
	require.True(t, tr.Insert(3, "three"))

	cases := []struct {
		query uint32
		want  uint32
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 3},
		{4, 3},
		{0x80000000, 3},
		{0xFFFFFFFF, 3},
	}
	for _, c := range cases {
		e, ok := tr.Search(c.query)
		require.True(t, ok)
		require.Equal(t, c.want, e.Key, "query %#x", c.query)
	}

	// Below the pair the walk loses the path while wanting a zero bit and
	// keeps to the left, above it keeps to the right.
	prop := func(q uint32) bool {
		e, ok := tr.Search(q)
		if !ok {
			return false
		}
		if q <= 2 {
			return e.Key == 2
		}
		return e.Key == 3
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestTrie_RangeEndpoints(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	ranges := []struct {
		from, to uint32
		label    string
	}{
		{0x0A000000, 0x0AFFFFFF, "ten"},
		{0xC0A80000, 0xC0A8FFFF, "lan"},
	}
	for _, r := range ranges {
		require.True(t, tr.Insert(r.from, r.label))
		require.True(t, tr.Insert(r.to, r.label))
	}

	for _, q := range []struct {
		key  uint32
		want string
	}{
		{0x0A000000, "ten"},
		{0x0A123456, "ten"},
		{0x0AF00000, "ten"},
		{0xC0A81234, "lan"},
		{0xC0A8FF00, "lan"},
	} {
		e, ok := tr.Search(q.key)
		require.True(t, ok)
		require.Equal(t, q.want, e.Value, "query %#x", q.key)
	}
}

func TestTrie_ExactMatchRandom(t *testing.T) {
	t.Parallel()

	keys := generateKeys(t, 5000)
	tr := NewTrie[int](Hooks[int]{})

	stored := make(map[uint32]int)
	for i, k := range keys {
		_, seen := stored[k]
		require.Equal(t, !seen, tr.Insert(k, i))
		if !seen {
			stored[k] = i
		}
	}
	require.Equal(t, len(stored), tr.Len())
	require.LessOrEqual(t, tr.Height(), KeyBits+1)

	for k, want := range stored {
		e, ok := tr.Search(k)
		require.True(t, ok)
		require.Equal(t, k, e.Key)
		require.Equal(t, want, e.Value)

		n, steps := tr.walk(k)
		require.NotNil(t, n)
		require.LessOrEqual(t, steps, KeyBits)
	}

	for _, q := range generateKeys(t, 1000) {
		_, steps := tr.walk(q)
		require.LessOrEqual(t, steps, KeyBits)
	}
	checkStructure(t, tr)
}

func TestTrie_WalkIsAscending(t *testing.T) {
	t.Parallel()

	prop := func(keys []uint32) bool {
		tr := NewTrie[struct{}](Hooks[struct{}]{})
		for _, k := range keys {
			tr.Insert(k, struct{}{})
		}

		var walked []uint32
		tr.Walk(func(k uint32, _ struct{}) bool {
			walked = append(walked, k)
			return false
		})

		want := slices.Clone(keys)
		slices.Sort(want)
		want = slices.Compact(want)
		return slices.Equal(walked, want) && tr.Len() == len(want)
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestTrie_WalkStops(t *testing.T) {
	t.Parallel()

	tr := NewTrie[int](Hooks[int]{})
	for i := uint32(0); i < 10; i++ {
		tr.Insert(i<<28, int(i))
	}

	var visited []int
	tr.Walk(func(_ uint32, v int) bool {
		visited = append(visited, v)
		return len(visited) == 3
	})
	require.Equal(t, []int{0, 1, 2}, visited)
}

func TestTrie_MinimumMaximum(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	for _, k := range []uint32{0x80000000, 7, 0xDEADBEEF, 0x00010000} {
		tr.Insert(k, fmt.Sprintf("%#x", k))
	}

	lo, ok := tr.Minimum()
	require.True(t, ok)
	require.Equal(t, uint32(7), lo.Key)

	hi, ok := tr.Maximum()
	require.True(t, ok)
	require.Equal(t, uint32(0xDEADBEEF), hi.Key)
}

func TestTrie_Show(t *testing.T) {
	t.Parallel()

	t.Run("default format", func(t *testing.T) {
		tr := NewTrie[string](Hooks[string]{})
		tr.Insert(10, "b")
		tr.Insert(1, "a")

		var buf bytes.Buffer
		require.NoError(t, tr.Show(&buf))
		require.Equal(t, "keys: \n0x1: a\n0xa: b\n", buf.String())
	})

	t.Run("print hook", func(t *testing.T) {
		tr := NewTrie[string](Hooks[string]{
			Print: func(w io.Writer, e Entry[string]) error {
				_, err := fmt.Fprintf(w, "%d=%s;", e.Key, e.Value)
				return err
			},
		})
		tr.Insert(10, "b")
		tr.Insert(1, "a")

		var buf bytes.Buffer
		require.NoError(t, tr.Show(&buf))
		require.Equal(t, "keys: \n1=a;10=b;", buf.String())
	})

	t.Run("hook error stops output", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		tr := NewTrie[string](Hooks[string]{
			Print: func(io.Writer, Entry[string]) error {
				calls++
				return boom
			},
		})
		tr.Insert(10, "b")
		tr.Insert(1, "a")

		require.ErrorIs(t, tr.Show(io.Discard), boom)
		require.Equal(t, 1, calls)
	})
}

func TestTrie_Destroy(t *testing.T) {
	t.Parallel()

	released := make(map[string]int)
	tr := NewTrie[string](Hooks[string]{
		Release: func(v string) { released[v]++ },
	})

	keys := []uint32{0, 1, 2, 3, 10, 11, 12, 0x80000000, 0xFFFFFFFF}
	for _, k := range keys {
		require.True(t, tr.Insert(k, fmt.Sprint(k)))
	}
	// A rejected duplicate stays with the caller.
	require.False(t, tr.Insert(3, "dup"))

	tr.Destroy()

	require.Len(t, released, len(keys))
	for _, k := range keys {
		require.Equal(t, 1, released[fmt.Sprint(k)])
	}
	require.Zero(t, released["dup"])

	require.Equal(t, 0, tr.Len())
	require.Equal(t, 0, tr.NodeCount())
	require.Equal(t, 0, tr.Height())
	_, ok := tr.Search(1)
	require.False(t, ok)

	tr.Destroy()
	require.Len(t, released, len(keys))

	require.True(t, tr.Insert(5, "again"))
	e, ok := tr.Search(0)
	require.True(t, ok)
	require.Equal(t, uint32(5), e.Key)
}

func TestTrie_DestroyWithoutRelease(t *testing.T) {
	t.Parallel()

	tr := NewTrie[*int](Hooks[*int]{})
	for i := 0; i < 100; i++ {
		v := i
		tr.Insert(uint32(i)*7919, &v)
	}
	require.NotPanics(t, tr.Destroy)
	require.Equal(t, 0, tr.Len())
}

func TestTrie_Dump(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	tr.Insert(0, "low")
	tr.Insert(0xFFFFFFFF, "high")

	out := tr.dumpString()
	require.Equal(t, strings.Join([]string{
		"### size(2), nodes(1), height(2)",
		"[branch] level: 1 path: - children: 2",
		".[leaf] level: 2 path: 0 key: 0x00000000 value: low",
		".[leaf] level: 2 path: 1 key: 0xffffffff value: high",
		"",
	}, "\n"), out)
}

func TestTrie_InvariantViolationPanics(t *testing.T) {
	t.Parallel()

	tr := NewTrie[string](Hooks[string]{})
	tr.Insert(0, "low")
	tr.Insert(0xFFFFFFFF, "high")

	// Strip the branch point so it holds nothing at all.
	tr.root.children = [2]*node[string]{}

	requireInvariantPanic(t, func() { tr.Search(5) })
	requireInvariantPanic(t, func() { tr.Get(0xFFFFFFFF) })
}

func requireInvariantPanic(t *testing.T, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrInvariant)
	}()
	fn()
}

// checkStructure verifies the node invariants and that the counters agree
// with what is actually materialized.
func checkStructure[T any](t *testing.T, tr *Trie[T]) {
	t.Helper()

	leaves, branches, maxLevel := 0, 0, 0
	it := &rawIterator[T]{node: tr.root}
	for it.Next(); it.Front() != nil; it.Next() {
		n := it.Front()
		require.LessOrEqual(t, n.level, KeyBits+1)
		maxLevel = max(maxLevel, n.level)

		if n.isLeaf() {
			require.Zero(t, n.getNumChildren(), "leaf on level %d has children", n.level)
			// Only the bits above the leaf's level are fixed by its path.
			mask := ^uint32(0) << uint(KeyBits-(n.level-1))
			require.Equal(t, it.Path()&mask, n.entry.Key&mask, "leaf %#x off its path", n.entry.Key)
			leaves++
			continue
		}
		require.NotZero(t, n.getNumChildren(), "empty branch on level %d", n.level)
		branches++
	}

	require.Equal(t, tr.Len(), leaves)
	require.Equal(t, tr.NodeCount(), branches)
	require.Equal(t, tr.Height(), maxLevel)
}

func generateKeys(tb testing.TB, size int) []uint32 {
	tb.Helper()

	raw, err := uuid.GenerateRandomBytes(size * 4)
	if err != nil {
		tb.Fatal(err)
	}
	keys := make([]uint32, size)
	for i := range keys {
		keys[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return keys
}

func BenchmarkInsertTrie(b *testing.B) {
	keys := generateKeys(b, b.N)
	tr := NewTrie[int](Hooks[int]{})
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tr.Insert(keys[n], n)
	}
}

func BenchmarkSearchTrie(b *testing.B) {
	tr := NewTrie[int](Hooks[int]{})
	for i, k := range generateKeys(b, 100000) {
		tr.Insert(k, i)
	}
	queries := generateKeys(b, b.N)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tr.Search(queries[n])
	}
}
