// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package placeip

import (
	"fmt"
	"io"
	"net/netip"

	bittrie "github.com/absolutelightning/go-nearest-bit-trie"
)

// Location is the place an address range maps to.
type Location struct {
	CountryCode string
	CountryName string
	Province    string
	City        string
}

// FormatAddr renders key as a dotted-decimal IPv4 address.
func FormatAddr(key uint32) string {
	return netip.AddrFrom4([4]byte{
		byte(key >> 24),
		byte(key >> 16),
		byte(key >> 8),
		byte(key),
	}).String()
}

// FormatEntry writes one indexed boundary as
// "key: (a.b.c.d, CC: country, province, city)".
func FormatEntry(w io.Writer, e bittrie.Entry[*Location]) error {
	loc := e.Value
	if loc == nil {
		loc = &Location{}
	}
	_, err := fmt.Fprintf(w, "%d: (%s, %s: %s, %s, %s)\n",
		e.Key, FormatAddr(e.Key), loc.CountryCode, loc.CountryName, loc.Province, loc.City)
	return err
}
