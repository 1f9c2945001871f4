// Package canonical produces the deterministic byte encoding used to hash
// blocks. Object keys are sorted, the separators are ", " and ": ", and the
// output is pure ASCII so the same logical value always yields the same bytes.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal returns the canonical encoding of the specified value. The value is
// first marshaled with the standard JSON rules, so struct tags and custom
// MarshalJSON methods are honored, then re-emitted in canonical form.
func Marshal(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, generic); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// encode writes the generic JSON value into the buffer.
func encode(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")

	case bool:
		if v {
			buf.WriteString("true")
			return nil
		}
		buf.WriteString("false")

	case json.Number:
		buf.WriteString(v.String())

	case string:
		writeString(buf, v)

	case []any:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeString(buf, key)
			buf.WriteString(": ")
			if err := encode(buf, v[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	default:
		return fmt.Errorf("unsupported type %T", value)
	}

	return nil
}

// writeString writes a double quoted JSON string escaping everything
// outside of printable ASCII.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(buf, `\u%04x`, r)
			case r < utf8.RuneSelf:
				buf.WriteRune(r)
			case r > 0xFFFF:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		}
	}

	buf.WriteByte('"')
}

// =============================================================================

// FormatFloat returns the shortest text that round trips the float. Integral
// values keep a trailing ".0" and very large or very small magnitudes switch
// to exponent form.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	if f != 0 {
		e := strconv.FormatFloat(f, 'e', -1, 64)
		if i := strings.IndexByte(e, 'e'); i >= 0 {
			exp, err := strconv.Atoi(e[i+1:])
			if err == nil && (exp < -4 || exp >= 16) {
				return e
			}
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}

	return s
}

// FormatNumber renders an amount. Integral values within the exact integer
// range of a float64 are written without a fraction, everything else uses
// FormatFloat.
func FormatNumber(f float64) string {
	const maxExact = 1 << 53

	if f == math.Trunc(f) && math.Abs(f) < maxExact {
		return strconv.FormatInt(int64(f), 10)
	}

	return FormatFloat(f)
}

// QuoteString returns the string as a literal with single quotes, switching
// to double quotes when the string holds a single quote and no double quote.
// This is the text form used when transactions are joined into the
// proof of work content.
func QuoteString(s string) string {
	quote := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		quote = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)

	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x100 && !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000 && !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\U%08x`, r)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte(quote)
	return b.String()
}
