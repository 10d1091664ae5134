package testutil

import "strings"

// Keys splits a space-separated key line, e.g. Keys("5 + 3 =").
func Keys(line string) []string {
	return strings.Fields(line)
}
