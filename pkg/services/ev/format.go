package ev

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// usd formats whole dollars with thousands separators, e.g. $1,235.
func usd(v float64) string {
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

// percent renders a probability as a whole percentage, e.g. 0.584 -> "58".
func percent(p float64) string {
	return strconv.FormatInt(int64(math.Floor(p*100+0.5)), 10)
}
