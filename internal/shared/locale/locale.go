// Package locale provides the locale fallback chain used when resolving
// localized catalog text, plus the money/date formatting used by response
// shaping.
package locale

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default is the locale assumed when a request does not carry one.
const Default = "th"

// Placeholder is returned when an entity has no text in any locale.
const Placeholder = "(unnamed)"

// Normalize lowercases and trims a locale tag, keeping only the primary
// subtag ("en-US" resolves as "en").
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

// Resolve picks the display text for the requested locale. The chain is
// requested -> fallback -> first available (sorted for determinism) ->
// Placeholder.
func Resolve(texts map[string]string, requested, fallback string) string {
	if text, ok := texts[Normalize(requested)]; ok && text != "" {
		return text
	}
	if text, ok := texts[Normalize(fallback)]; ok && text != "" {
		return text
	}
	tags := make([]string, 0, len(texts))
	for tag, text := range texts {
		if text != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return Placeholder
	}
	sort.Strings(tags)
	return texts[tags[0]]
}

// currencies maps a primary locale subtag to its display currency.
var currencies = map[string]string{
	"th": "฿",
	"en": "THB ",
}

// FormatAmount renders a monetary amount for the given locale with two
// decimal places and thousands separators.
func FormatAmount(amount decimal.Decimal, tag string) string {
	symbol, ok := currencies[Normalize(tag)]
	if !ok {
		symbol = currencies[Default]
	}
	return symbol + groupThousands(amount.StringFixed(2))
}

// FormatDate renders a timestamp for the given locale. Thai dates use the
// Buddhist calendar year.
func FormatDate(t time.Time, tag string) string {
	if Normalize(tag) == "th" {
		return t.Format("02/01/") + strconv.Itoa(t.Year()+543)
	}
	return t.Format("Jan 2, 2006")
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + fracPart
}
