package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the normalized date format.
const DateLayout = "2006-01-02"

// Largest serial Excel can represent (9999-12-31).
const maxExcelSerial = 2958465

var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"20060102",
}

// NormalizeDate turns a date cell into YYYY-MM-DD. Native date cells arrive as
// Excel serial numbers; text goes through a list of common layouts. Text that
// matches no layout is returned trimmed. ok is false for blank cells.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if !(len(s) == 8 && isDigits(s)) {
		if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t.Format(DateLayout), true
			}
		}
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return s, true
}

// ParseDecimal reads a numeric cell. When both "." and "," appear the last one
// is the decimal mark and the other groups thousands ("1,234.50", "1.234,50").
// A lone separator is a decimal mark ("12,5", "12.20") unless it repeats as
// grouping ("1,234,567"). A single comma followed by exactly three digits
// ("1,234") is ambiguous, and it yields nil like blank or non-numeric cells.
func ParseDecimal(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "€")
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return nil
	}

	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}

	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	var intPart, fracPart, group string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		mark := lastDot
		group = ","
		if lastComma > lastDot {
			mark, group = lastComma, "."
		}
		intPart, fracPart = s[:mark], s[mark+1:]
	case lastComma >= 0:
		intPart, fracPart, group = splitLoneSeparator(s, ",")
	case lastDot >= 0:
		intPart, fracPart, group = splitLoneSeparator(s, ".")
	default:
		intPart = s
	}
	if intPart == "" && fracPart == "" {
		return nil
	}
	if fracPart != "" && !isDigits(fracPart) {
		return nil
	}

	digits, ok := ungroup(intPart, group)
	if !ok {
		return nil
	}
	if fracPart != "" {
		digits += "." + fracPart
	}
	d, err := decimal.NewFromString(sign + digits)
	if err != nil {
		return nil
	}
	return &d
}

// splitLoneSeparator handles a cell that uses only sep. The ambiguous "1,234"
// form comes back with both parts empty.
func splitLoneSeparator(s, sep string) (intPart, fracPart, group string) {
	if strings.Count(s, sep) > 1 {
		return s, "", sep
	}
	i := strings.Index(s, sep)
	if sep == "," && len(s)-i-1 == 3 {
		return "", "", ""
	}
	return s[:i], s[i+1:], ""
}

// ungroup strips group separators from an integer part, rejecting groups that
// are not 1-3 leading digits followed by blocks of exactly three.
func ungroup(intPart, group string) (string, bool) {
	if intPart == "" {
		return "0", true
	}
	if group == "" || !strings.Contains(intPart, group) {
		return intPart, isDigits(intPart)
	}
	blocks := strings.Split(intPart, group)
	for i, b := range blocks {
		if !isDigits(b) || b == "" {
			return "", false
		}
		if (i == 0 && len(b) > 3) || (i > 0 && len(b) != 3) {
			return "", false
		}
	}
	return strings.Join(blocks, ""), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
