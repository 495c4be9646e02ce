package i18n

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Date and time layouts per MessageFormat style. x/text does not format
// dates, so these are locale-neutral.
var (
	dateLayouts = map[string]string{
		"":       "2006-01-02",
		"short":  "2006-01-02",
		"medium": "2 Jan 2006",
		"long":   "2 January 2006",
		"full":   "Monday, 2 January 2006",
	}
	timeLayouts = map[string]string{
		"":       "15:04:05",
		"short":  "15:04",
		"medium": "15:04:05",
		"long":   "15:04:05 MST",
		"full":   "15:04:05 MST",
	}
)

// Format renders pattern for tag, substituting args into its placeholders.
//
// A placeholder referring past the end of args is emitted unchanged. A
// single quote starts a literal section up to the next quote; "''" is a
// literal quote.
func Format(tag language.Tag, pattern string, args ...any) (string, error) {
	if !strings.ContainsAny(pattern, "{'") {
		return pattern, nil
	}

	var (
		b       strings.Builder
		printer *message.Printer
		quoted  bool
	)
	b.Grow(len(pattern))

	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		if ch == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			quoted = !quoted
			continue
		}
		if quoted || ch != '{' {
			b.WriteByte(ch)
			continue
		}

		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder at offset %d", ErrMalformedPattern, i)
		}
		spec := pattern[i+1 : i+end]
		i += end

		ph, err := parsePlaceholder(spec)
		if err != nil {
			return "", err
		}
		if ph.index >= len(args) {
			b.WriteString("{" + spec + "}")
			continue
		}
		if printer == nil {
			printer = message.NewPrinter(tag)
		}
		text, err := ph.format(printer, args[ph.index])
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}

	return b.String(), nil
}

type placeholder struct {
	index int
	kind  string
	style string
}

func parsePlaceholder(spec string) (placeholder, error) {
	parts := strings.SplitN(spec, ",", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	idx, err := strconv.Atoi(parts[0])
	if err != nil || idx < 0 {
		return placeholder{}, fmt.Errorf("%w: bad argument index %q", ErrMalformedPattern, parts[0])
	}

	ph := placeholder{index: idx}
	if len(parts) > 1 {
		ph.kind = strings.ToLower(parts[1])
	}
	if len(parts) > 2 {
		ph.style = strings.ToLower(parts[2])
	}

	switch ph.kind {
	case "", "number", "date", "time":
	default:
		return placeholder{}, fmt.Errorf("%w: unsupported format type %q", ErrMalformedPattern, ph.kind)
	}
	return ph, nil
}

func (ph placeholder) format(p *message.Printer, arg any) (string, error) {
	switch ph.kind {
	case "number":
		n, ok := numeric(arg)
		if !ok {
			return "", fmt.Errorf("%w: %T as number", ErrArgumentType, arg)
		}
		return formatNumber(p, n, ph.style), nil
	case "date", "time":
		t, ok := arg.(time.Time)
		if !ok {
			return "", fmt.Errorf("%w: %T as %s", ErrArgumentType, arg, ph.kind)
		}
		layouts := dateLayouts
		if ph.kind == "time" {
			layouts = timeLayouts
		}
		layout, ok := layouts[ph.style]
		if !ok {
			layout = ph.style
		}
		return t.Format(layout), nil
	}

	switch v := arg.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case time.Time:
		return v.Format(dateLayouts["short"] + " " + timeLayouts["short"]), nil
	}
	if n, ok := numeric(arg); ok {
		return formatNumber(p, n, ""), nil
	}
	return fmt.Sprint(arg), nil
}

func formatNumber(p *message.Printer, n any, style string) string {
	switch style {
	case "integer":
		return p.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(0)))
	case "percent":
		return p.Sprintf("%v", number.Percent(n))
	default:
		return p.Sprintf("%v", number.Decimal(n))
	}
}

// numeric reports whether arg is a number the printer can format,
// converting json.Number and decimal-like types.
func numeric(arg any) (any, bool) {
	switch v := arg.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		return f, err == nil
	case interface{ InexactFloat64() float64 }:
		return v.InexactFloat64(), true
	}
	return nil, false
}
