package compliance

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const takaSign = "৳"

var printer = message.NewPrinter(language.English)

// FormatTaka renders a whole-taka amount with the taka sign and thousands separators,
// e.g. ৳5,175.
func FormatTaka(amount int64) string {
	if amount < 0 {
		return "-" + takaSign + printer.Sprintf("%d", -amount)
	}
	return takaSign + printer.Sprintf("%d", amount)
}
