package report

import "fmt"

// FormatCents renders integer cents as a currency string like "€123.40".
func FormatCents(cents int64, symbol string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

// FormatAmount is FormatCents for a raw backend amount.
func FormatAmount(amount float64, symbol string) string {
	return FormatCents(Cents(amount), symbol)
}
