// Package view turns API payloads into what the templates display.
package view

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"ticketsafi/web/internal/assets"
)

const (
	dateTimeLayout = "Jan 2, 2006 • 3:04 PM"
	dayLayout      = "Jan 2, 2006"
	longLayout     = "Monday, January 2 at 3:04 PM"
)

// Mapper carries what every mapping needs: where media lives and which
// time zone to show dates in.
type Mapper struct {
	Assets assets.Resolver
	Loc    *time.Location
}

func NewMapper(apiURL string, loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{Assets: assets.NewResolver(apiURL), Loc: loc}
}

// DateTime formats t as "Nov 27, 2025 • 8:00 PM".
func (m *Mapper) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(m.Loc).Format(dateTimeLayout)
}

func (m *Mapper) Day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(m.Loc).Format(dayLayout)
}

func (m *Mapper) LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(m.Loc).Format(longLayout)
}

func (m *Mapper) Image(path *string) string {
	return m.Assets.ResolveOr(path, assets.Placeholder)
}

// KES formats an amount as "KES 1,500".
func KES(v float64) string {
	return "KES " + Number(v)
}

var numbers = message.NewPrinter(language.English)

// Number groups thousands and keeps at most two decimals, dropping
// trailing zeros.
func Number(v float64) string {
	return numbers.Sprintf("%v", number.Decimal(math.Round(v*100)/100, number.MaxFractionDigits(2)))
}

// TotalPages is the page count for count items of size per page, at least
// one.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "U"
}
