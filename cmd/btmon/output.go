package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sivchari/btmon/pkg/battery"
)

type output struct {
	json   bool
	indent bool // Pretty-print JSON for humans.
}

func (o output) write(w io.Writer, records []battery.Record) error {
	if o.json {
		return writeJSON(w, records, o.indent)
	}
	return writeText(w, records)
}

func writeText(w io.Writer, records []battery.Record) error {
	for _, r := range records {
		line := fmt.Sprintf("%s: %s", r.Name, r.Level)
		if c := r.Components; c.Any() {
			var parts []string
			if c.Left.Valid() {
				parts = append(parts, "L:"+c.Left.String())
			}
			if c.Right.Valid() {
				parts = append(parts, "R:"+c.Right.String())
			}
			if c.Case.Valid() {
				parts = append(parts, "Case:"+c.Case.String())
			}
			line += " (" + strings.Join(parts, " ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Level   int    `json:"battery_level"`
	Left    *int   `json:"battery_left,omitempty"`
	Right   *int   `json:"battery_right,omitempty"`
	Case    *int   `json:"battery_case,omitempty"`
}

func optionalLevel(l battery.Level) *int {
	if !l.Valid() {
		return nil
	}
	v := int(l)
	return &v
}

func writeJSON(w io.Writer, records []battery.Record, indent bool) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		record := jsonRecord{
			Name:    r.Name,
			Address: r.Address,
			Level:   int(r.Level),
		}
		if c := r.Components; c != nil {
			record.Left = optionalLevel(c.Left)
			record.Right = optionalLevel(c.Right)
			record.Case = optionalLevel(c.Case)
		}
		out = append(out, record)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
