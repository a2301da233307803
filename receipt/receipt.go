// Package receipt renders bills as fixed-width text for thermal printers.
package receipt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"salonpos/models"
)

// Width is the printable width of an 80mm roll in monospace characters.
const Width = 40

const totalLabel = "TOTAL:"

// Header carries the business details printed around the bill.
type Header struct {
	SalonName   string
	Currency    string
	FooterPhone string
}

// HeaderFrom builds a Header from the stored settings.
func HeaderFrom(s models.Settings) Header {
	return Header{SalonName: s.SalonName, Currency: s.Currency, FooterPhone: s.FooterPhone}
}

// Format renders the bill. All amounts are printed exactly as stored on the
// bill; nothing is recomputed.
func Format(bill models.Bill, h Header) string {
	var lines []string
	rule := strings.Repeat("=", Width)
	thin := strings.Repeat("-", Width)

	lines = append(lines, rule)
	lines = append(lines, center(strings.ToUpper(h.SalonName)))
	lines = append(lines, bill.Date)
	lines = append(lines, "Bill No: #"+bill.ID)
	if bill.CustomerName != "" && bill.CustomerName != models.WalkInCustomer {
		lines = append(lines, "Cust: "+bill.CustomerName)
	}
	lines = append(lines, thin)

	for _, item := range bill.Items {
		price := amount(item.LineTotal())
		qty := fmt.Sprintf(" x%d", item.Quantity)
		name := item.Name
		if room := Width - len(price) - len(qty) - 1; utf8.RuneCountInString(name) > room && room > 0 {
			name = string([]rune(name)[:room])
		}
		lines = append(lines, row(name+qty, price))
	}

	lines = append(lines, thin)
	lines = append(lines, row("Subtotal:", amount(bill.Subtotal)))
	if bill.DiscountAmount > 0 {
		label := fmt.Sprintf("Discount (%s%%):", strconv.FormatFloat(bill.DiscountPercent, 'f', -1, 64))
		lines = append(lines, row(label, "-"+amount(bill.DiscountAmount)))
	}
	if bill.RedeemedPoints > 0 {
		lines = append(lines, row("Loyalty:", "-"+amount(float64(bill.RedeemedPoints))))
	}
	lines = append(lines, row("Tax:", amount(bill.Tax)))
	total := amount(bill.Total)
	if h.Currency != "" {
		total = h.Currency + " " + total
	}
	lines = append(lines, totalRows(total)...)
	lines = append(lines, row("Mode:", string(bill.PaymentMethod)))
	lines = append(lines, rule)
	lines = append(lines, center("Thank you for visiting!"))
	if h.FooterPhone != "" {
		lines = append(lines, center("For appointments call "+h.FooterPhone))
	}
	lines = append(lines, rule)

	return strings.Join(lines, "\n") + "\n"
}

// ErrNoTotal is returned when a text has no grand total line.
var ErrNoTotal = errors.New("receipt has no total line")

// ParseTotal reads the grand total back out of a formatted receipt. The
// total row is the last line carrying the label, so item names that happen
// to start with it do not match.
func ParseTotal(text string) (float64, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if !strings.HasPrefix(lines[i], totalLabel) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(lines[i], totalLabel))
		if len(fields) == 0 {
			// amount wrapped onto the next line
			if i+1 >= len(lines) {
				return 0, ErrNoTotal
			}
			fields = strings.Fields(lines[i+1])
			if len(fields) == 0 {
				return 0, ErrNoTotal
			}
		}
		return strconv.ParseFloat(fields[len(fields)-1], 64)
	}
	return 0, ErrNoTotal
}

// totalRows keeps the label and the full amount. When both do not fit on
// one line the amount moves to its own right-aligned line.
func totalRows(total string) []string {
	if len(totalLabel)+1+utf8.RuneCountInString(total) <= Width {
		return []string{row(totalLabel, total)}
	}
	pad := Width - utf8.RuneCountInString(total)
	if pad < 0 {
		pad = 0
	}
	return []string{totalLabel, strings.Repeat(" ", pad) + total}
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// row left-aligns left and right-aligns right, truncating left when the
// two do not fit on one line.
func row(left, right string) string {
	room := Width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		return right
	}
	if utf8.RuneCountInString(left) > room {
		left = string([]rune(left)[:room])
	}
	pad := Width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	return left + strings.Repeat(" ", pad) + right
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-n)/2) + s
}
