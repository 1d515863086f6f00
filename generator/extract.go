package generator

import (
	"regexp"
	"strconv"
)

var percentagePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ExtractPercentage pulls the first decimal number out of a free-text model
// reply. The scoring prompt asks for a bare number, but replies arrive in
// whatever shape the model felt like, so this is a best-effort parse:
// anything without a digit degrades to 0 and ranks the row lowest.
func ExtractPercentage(reply string) float64 {
	match := percentagePattern.FindString(reply)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}
