// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")

	var out bytes.Buffer
	rows := [][]string{
		{"portaudio", "missing", "not compiled in"},
		{"visa", "disabled", "by configuration"},
	}
	if err := renderTable(&out, []string{"DEPENDENCY", "STATUS", "DETAIL"}, rows); err != nil {
		t.Fatalf("renderTable error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	// top border, header, separator, rows, bottom border
	if len(lines) != len(rows)+4 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(rows)+4, out.String())
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[len(lines)-1], "└") {
		t.Errorf("table is not bordered:\n%s", out.String())
	}
	for i, want := range [][]string{{"DEPENDENCY", "STATUS", "DETAIL"}, rows[0], rows[1]} {
		line := lines[1]
		if i > 0 {
			line = lines[2+i]
		}
		cells := strings.Split(strings.Trim(line, "│"), "│")
		if len(cells) != len(want) {
			t.Fatalf("line %q has %d cells, want %d", line, len(cells), len(want))
		}
		for j, c := range cells {
			if got := strings.TrimSpace(c); got != want[j] {
				t.Errorf("cell %d of %q = %q, want %q", j, line, got, want[j])
			}
		}
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("escape sequences written to a non-terminal: %q", out.String())
	}
}
