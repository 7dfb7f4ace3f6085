// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package placeip

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const banner = "Enter an ipv4 string or a number (or a blank line to quit).\n"

// REPL reads one query per line and prints the closest indexed boundary.
// A blank line or end of input stops it.
type REPL struct {
	Locator *Locator
	Prompt  string
}

func (r *REPL) Run(in io.Reader, out io.Writer) error {
	if _, err := io.WriteString(out, banner+r.Prompt); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		if err := r.answer(out, line); err != nil {
			return err
		}
		if _, err := io.WriteString(out, r.Prompt); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (r *REPL) answer(out io.Writer, line string) error {
	key, err := ParseKey(line)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected query")
		_, err = io.WriteString(out, "INVALID KEY\n")
		return err
	}

	e, ok := r.Locator.Lookup(key)
	if !ok {
		_, err = fmt.Fprintln(out, "NOT FOUND")
		return err
	}
	return FormatEntry(out, e)
}
