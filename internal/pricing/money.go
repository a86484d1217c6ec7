package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var frPrinter = message.NewPrinter(language.French)

// FormatEUR renders an amount the way the documents print it: French locale,
// exactly two decimals, non-breaking thousand separators, trailing euro sign.
func FormatEUR(v float64) string {
	return frPrinter.Sprintf("%v €", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}
