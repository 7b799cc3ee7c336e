// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"strings"
	"testing"
)

func TestRepairTables(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "unpadded rows repaired",
			in:   "|Column 1|Column 2|Column 3|\n|Value 1|Value 2|Value 3|",
			want: []string{
				"| Column 1 | Column 2 | Column 3 |",
				"| Value 1 | Value 2 | Value 3 |",
			},
		},
		{
			name: "row without outer pipes",
			in:   "a | b | c",
			want: []string{"| a | b | c |"},
		},
		{
			name: "separator row normalized",
			in:   "|---|---|",
			want: []string{"| --- | --- |"},
		},
		{
			name: "prose with one pipe untouched",
			in:   "either this | or that",
			want: []string{"either this | or that"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairTables(tt.in)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("RepairTables(%q) = %q, missing %q", tt.in, got, want)
				}
			}
		})
	}
}

func TestRepairTables_NonTableLinesPassThrough(t *testing.T) {
	in := "# Heading\n\nplain paragraph\n\n|a|b|\n|c|d|"
	got := RepairTables(in)
	if !strings.Contains(got, "# Heading") || !strings.Contains(got, "plain paragraph") {
		t.Errorf("non-table content altered: %q", got)
	}
}

func TestRepairTables_BlankLineAfterTableKept(t *testing.T) {
	in := "|a|b|\n\nparagraph after table"
	got := RepairTables(in)
	if !strings.Contains(got, "| a | b |\n\n") {
		t.Errorf("paragraph break after table lost: %q", got)
	}
	if !strings.Contains(got, "paragraph after table") {
		t.Errorf("trailing paragraph lost: %q", got)
	}
}
