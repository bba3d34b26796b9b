package omm

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// epochFormat renders timestamps with six fractional digits, zero-padded, the
// way CCSDS messages carry them.
const epochFormat = "2006-01-02T15:04:05.000000"

// childText returns the trimmed character data of an element, or "" when the
// element is empty. Group elements are never read through this; the decoder
// walks their child elements instead.
func childText(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

// appendIfPresent adds a child element named tag containing the rendered value,
// and is a no-op when the value is absent: nil pointers, empty strings and
// zero timestamps are absent.
func appendIfPresent(parent *etree.Element, tag string, value interface{}) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case *float64:
		if v == nil {
			return
		}
		value = *v
	case *int:
		if v == nil {
			return
		}
		value = *v
	case *time.Time:
		if v == nil {
			return
		}
		value = *v
	case time.Time:
		if v.IsZero() {
			return
		}
	}
	parent.CreateElement(tag).SetText(renderValue(value))
}

// renderValue renders a scalar to its message text. Strings pass through
// unchanged; timestamps use the six-digit fractional epoch format; numbers use
// the shortest representation that round-trips.
func renderValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(epochFormat)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// tagIs matches an element against a CCSDS tag name, case-insensitively.
func tagIs(el *etree.Element, tag string) bool {
	return strings.EqualFold(el.Tag, tag)
}

// findChildren returns all child elements matching tag, case-insensitively.
func findChildren(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if tagIs(child, tag) {
			out = append(out, child)
		}
	}
	return out
}
