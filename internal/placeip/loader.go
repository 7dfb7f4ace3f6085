// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package placeip

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	bittrie "github.com/absolutelightning/go-nearest-bit-trie"
)

// ErrEmptyDataset is returned when a range file indexes nothing.
var ErrEmptyDataset = errors.New("empty dataset")

const rangeFields = 6

// LoadStats summarises one pass over a range file.
type LoadStats struct {
	Rows       int
	Inserted   int
	Duplicates int
}

// Load reads quoted CSV rows of the form
//
//	"from","to","country code","country","province","city"
//
// and inserts both boundaries of every range into t, each with its own
// copy of the location.
func Load(r io.Reader, t *bittrie.Trie[*Location]) (LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read ranges: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) != rangeFields {
			return stats, fmt.Errorf("line %d: expected %d fields, got %d", line, rangeFields, len(rec))
		}

		from, err := parseBoundary(rec[0])
		if err != nil {
			return stats, fmt.Errorf("line %d: range start: %w", line, err)
		}
		to, err := parseBoundary(rec[1])
		if err != nil {
			return stats, fmt.Errorf("line %d: range end: %w", line, err)
		}
		stats.Rows++

		for _, key := range [2]uint32{from, to} {
			loc := &Location{
				CountryCode: rec[2],
				CountryName: rec[3],
				Province:    rec[4],
				City:        rec[5],
			}
			if t.Insert(key, loc) {
				stats.Inserted++
				continue
			}
			stats.Duplicates++
			log.Debug().Uint32("key", key).Int("line", line).Msg("Skipping duplicate boundary")
		}
	}

	if t.Len() == 0 {
		return stats, ErrEmptyDataset
	}
	return stats, nil
}

func parseBoundary(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
