// Package math holds the vector arithmetic of the access samples.
package math

import (
	"strconv"
)

// Format formats a float with two decimals.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
