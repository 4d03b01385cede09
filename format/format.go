// Package format renders numbers, dates and sizes for display.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type options struct {
	lang language.Tag
}

// Option adjusts locale-sensitive formatting.
type Option func(*options)

// WithLanguage selects the locale used for digit grouping. The default
// is English.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// Currency formats v with the given number of decimals, grouped in
// thousands, after symbol: Currency(1234.567, "$", 2) is "$1,234.57".
func Currency(v float64, symbol string, decimals int, opts ...Option) string {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}
	p := message.NewPrinter(o.lang)
	return symbol + p.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// Percentage formats v as a percentage. Values in (0, 1] are treated
// as fractions and scaled by 100; anything else is taken as already
// scaled.
func Percentage(v float64, decimals int, symbol bool) string {
	if v > 0 && v <= 1 {
		v *= 100
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if symbol {
		s += "%"
	}
	return s
}

var sizes = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FileSize formats a byte count in powers of 1024, with at most
// decimals digits after the point and no trailing zeros.
func FileSize(bytes uint64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	v, i := float64(bytes), 0
	for v >= 1024 && i < len(sizes)-1 {
		v /= 1024
		i++
	}
	decimals = max(decimals, 0)
	scale := math.Pow(10, float64(decimals))
	v = math.Round(v*scale) / scale
	return humanize.FtoaWithDigits(v, decimals) + " " + sizes[i]
}

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "%d seconds %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: 30 * humanize.Day, Format: "%d days %s", DivBy: humanize.Day},
	{D: 60 * humanize.Day, Format: "1 month %s", DivBy: 1},
	{D: 360 * humanize.Day, Format: "%d months %s", DivBy: 30 * humanize.Day},
	{D: 720 * humanize.Day, Format: "1 year %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: 360 * humanize.Day},
}

// RelativeTime describes t relative to now, like "3 hours ago" or
// "2 days from now". Months are 30 days and years are 12 months.
func RelativeTime(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}
