// Package moneyfmt renders monetary amounts in Brazilian locale formatting.
// Amounts arrive already rounded to cents; this package never re-rounds
// beyond the two fraction digits it displays.
package moneyfmt

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount as Brazilian currency, e.g. "R$ 1.234,56".
func BRL(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprintf("R$ %.2f", f)
}

// Percent formats a fractional rate as a percentage, e.g. 0.075 -> "7,50%".
func Percent(rate decimal.Decimal) string {
	f, _ := rate.Mul(decimal.NewFromInt(100)).Float64()
	return printer.Sprintf("%.2f%%", f)
}
