// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import "strings"

// RepairTables re-delimits candidate table rows into well-formed
// markdown. Any line containing at least two pipes is treated as a row:
// cells are split on "|", trimmed, and rejoined with single-space
// padding. Other lines pass through unchanged, and a blank line closing
// a table block is kept as a paragraph break. Column counts are not
// validated across rows; a misaligned header/separator pair survives
// repair unchanged in shape.
func RepairTables(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inTable := false

	for _, line := range lines {
		if strings.Count(line, "|") >= 2 {
			cells := splitTableRow(line)
			if len(cells) > 0 {
				result = append(result, "| "+strings.Join(cells, " | ")+" |")
				inTable = true
			} else {
				result = append(result, line)
				inTable = false
			}
			continue
		}

		if inTable && strings.TrimSpace(line) == "" {
			result = append(result, "")
		}
		result = append(result, line)
		inTable = false
	}

	return strings.Join(result, "\n")
}

// splitTableRow splits a row on pipes, trims each cell, and drops the
// empty leading/trailing cells produced by a line that starts or ends
// with "|".
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
