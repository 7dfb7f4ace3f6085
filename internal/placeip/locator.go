// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package placeip

import (
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	bittrie "github.com/absolutelightning/go-nearest-bit-trie"
)

// Stats are the trie counters reported after loading.
type Stats struct {
	Height    int
	Size      int
	NodeCount int
}

// Locator answers "which place is this address in" from a trie of range
// boundaries, caching recent answers.
type Locator struct {
	trie     *bittrie.Trie[*Location]
	cache    *lru.Cache[uint32, bittrie.Entry[*Location]]
	released int
}

// NewLocator builds an empty locator. cacheSize of zero turns the lookup
// cache off.
func NewLocator(cacheSize int) (*Locator, error) {
	l := &Locator{}
	l.trie = bittrie.NewTrie(bittrie.Hooks[*Location]{
		Release: func(*Location) { l.released++ },
		Print:   FormatEntry,
	})

	if cacheSize > 0 {
		cache, err := lru.New[uint32, bittrie.Entry[*Location]](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create lookup cache: %w", err)
		}
		l.cache = cache
	}
	return l, nil
}

// Load indexes the ranges read from r. Cached answers are dropped since
// new boundaries can change them.
func (l *Locator) Load(r io.Reader) (LoadStats, error) {
	if l.cache != nil {
		l.cache.Purge()
	}
	return Load(r, l.trie)
}

// Lookup returns the boundary entry closest to key.
func (l *Locator) Lookup(key uint32) (bittrie.Entry[*Location], bool) {
	if l.cache != nil {
		if e, ok := l.cache.Get(key); ok {
			return e, true
		}
	}

	e, ok := l.trie.Search(key)
	if ok && l.cache != nil {
		l.cache.Add(key, e)
	}
	return e, ok
}

// Show prints every indexed boundary in ascending order.
func (l *Locator) Show(w io.Writer) error {
	return l.trie.Show(w)
}

func (l *Locator) Stats() Stats {
	return Stats{
		Height:    l.trie.Height(),
		Size:      l.trie.Len(),
		NodeCount: l.trie.NodeCount(),
	}
}

// Close destroys the trie. The locator is empty but usable afterwards.
func (l *Locator) Close() {
	l.trie.Destroy()
	if l.cache != nil {
		l.cache.Purge()
	}
	log.Debug().Int("released", l.released).Msg("Destroyed trie")
}
