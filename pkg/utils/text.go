package utils

import "strings"

// SplitLines breaks text on "\n" into the lines shown as visually separate
// rows. Joining the result with "\n" gives back the input unchanged.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
