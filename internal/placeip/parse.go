// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package placeip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidKey is returned for input that is neither a 32-bit decimal
// number nor a dotted-decimal address.
var ErrInvalidKey = errors.New("invalid key")

const maxOctets = 4

// ParseKey turns user input into a trie key. Input without dots is a
// decimal number; dotted input has one to four octets and missing trailing
// octets count as zero, so "10.1" is 10.1.0.0.
func ParseKey(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidKey)
	}

	if !strings.Contains(s, ".") {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
		return uint32(n), nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > maxOctets {
		return 0, fmt.Errorf("%w: %q has more than %d octets", ErrInvalidKey, s, maxOctets)
	}

	var key uint32
	for _, p := range parts {
		octet, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: bad octet %q in %q", ErrInvalidKey, p, s)
		}
		key = key<<8 | uint32(octet)
	}
	key <<= 8 * uint(maxOctets-len(parts))
	return key, nil
}
