package document

import (
	"strconv"
	"time"

	"github.com/samber/mo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder stands in for absent values
const Placeholder = "-"

const (
	dateLayout      = "2006-01-02"
	monthLayout     = "2006-01"
	createdLayout   = "2006-01-02 15:04"
	generatedLayout = "2006-01-02 15:04:05"
)

// FormatAmount renders v with two decimals, thousands separators and the
// currency suffix
func FormatAmount(v float64, currency string) string {
	s := message.NewPrinter(language.English).Sprintf("%.2f", v)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatHours renders the shortest decimal form, 7.5 stays 7.5 and 8 stays 8
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(d mo.Option[time.Time], layout string) string {
	t, ok := d.Get()
	if !ok {
		return Placeholder
	}
	return t.Format(layout)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
