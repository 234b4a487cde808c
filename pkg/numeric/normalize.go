// Package numeric turns loosely-typed backend values (numbers, formatted
// strings, placeholders) into finite floats and display strings.
package numeric

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultMinDecimals = 2
	DefaultMaxDecimals = 6
)

var (
	leadingDecimal = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	percentPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Number coerces v into a finite float. Strings are stripped of everything
// except digits, '.' and '-' and the longest leading decimal is taken.
// Anything unparsable becomes 0.
func Number(v any) float64 {
	f, ok := Parse(v)
	if !ok {
		return 0
	}
	return f
}

// Percent extracts the first signed decimal found anywhere in v.
// "+3.2%" yields 3.2, "-1.05 %" yields -1.05, no match yields 0.
func Percent(v any) float64 {
	v = unwrap(v)
	if f, ok := finite(v); ok {
		return f
	}
	s, ok := text(v)
	if !ok {
		return 0
	}
	m := percentPattern.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// Parse reports the numeric value of v and whether it is a number at all.
// nil and strings that strip down to nothing count as 0. A string that keeps
// characters after stripping but has no leading decimal is not a number.
func Parse(v any) (float64, bool) {
	v = unwrap(v)
	switch v.(type) {
	case nil:
		return 0, true
	case map[string]any, []any:
		return 0, true
	}
	if f, ok := numberValue(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	s, _ := text(v)
	return parseStripped(strip(s))
}

func parseStripped(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	m := leadingDecimal.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func finite(v any) (float64, bool) {
	f, ok := numberValue(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func unwrap(v any) any {
	switch t := v.(type) {
	case Loose:
		return t.v
	case *Loose:
		if t == nil {
			return nil
		}
		return t.v
	}
	return v
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	case nil:
		return "", false
	}
	return fmt.Sprint(v), true
}

// Formatter renders numbers with locale grouping.
type Formatter struct {
	tag language.Tag
}

// NewFormatter builds a formatter for a BCP 47 locale. Unknown locales fall
// back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{tag: tag}
}

// Format renders v with between minDecimals and maxDecimals fraction digits,
// or "-" when v is not a number.
func (f *Formatter) Format(v any, minDecimals, maxDecimals int) string {
	x, ok := Parse(v)
	if !ok {
		return "-"
	}
	if maxDecimals < minDecimals {
		maxDecimals = minDecimals
	}
	p := message.NewPrinter(f.tag)
	return p.Sprint(number.Decimal(x,
		number.MinFractionDigits(minDecimals),
		number.MaxFractionDigits(maxDecimals),
	))
}

// Display formats with the default 2..6 fraction digits.
func (f *Formatter) Display(v any) string {
	return f.Format(v, DefaultMinDecimals, DefaultMaxDecimals)
}

var english = NewFormatter("en")

// Format renders v in English grouping. See Formatter.Format.
func Format(v any, minDecimals, maxDecimals int) string {
	return english.Format(v, minDecimals, maxDecimals)
}

// PercentText renders a percentage with two fixed decimals, e.g. "1.23%".
func PercentText(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}
