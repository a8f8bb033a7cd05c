// Package parse normalizes accounting-tool output into the canonical model.
//
// The external tool's output schema is not fixed: depending on tool, version
// and flags the same report arrives as an array of arrays, an array of
// objects, a wrapped object, or plain text. Classify tags the raw text with
// one of those shapes and the extractors in balance.go and register.go turn
// the tagged value into model types.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Shape classifies one blob of tool output.
type Shape string

const (
	// ShapeHledgerArray is a JSON array whose first element is itself an
	// array of length >= 4: hledger's positional row encoding.
	ShapeHledgerArray Shape = "hledger-array"
	// ShapeObjectArray is a JSON array of flat record objects.
	ShapeObjectArray Shape = "object-array"
	// ShapeWrappedObject is a single JSON object, usually wrapping a record
	// list under a conventional key.
	ShapeWrappedObject Shape = "wrapped-object"
	// ShapePlainText is anything that does not decode as JSON.
	ShapePlainText Shape = "plain-text"
)

// Classify sniffs raw tool output and returns its shape together with the
// decoded value the extractors should consume: the decoded JSON for the
// three JSON shapes, the raw text for ShapePlainText.
//
// Numbers decode as json.Number so mantissa values survive undamaged.
// Classify never fails: anything unrecognizable degrades to ShapePlainText.
func Classify(raw string) (Shape, any) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return ShapePlainText, raw
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ShapePlainText, raw
	}

	switch val := v.(type) {
	case []any:
		if len(val) > 0 {
			if first, ok := val[0].([]any); ok && len(first) >= 4 {
				return ShapeHledgerArray, val
			}
		}
		return ShapeObjectArray, val
	case map[string]any:
		return ShapeWrappedObject, val
	default:
		return ShapePlainText, raw
	}
}

// wrappedListPaths are the conventional keys a wrapped object hides its
// record list under, probed in order.
var wrappedListPaths = []string{
	"$.accounts",
	"$.balances",
	"$.rows",
	"$.items",
	"$.entries",
	"$.transactions",
	"$.postings",
	"$.data",
	"$.data.accounts",
	"$.data.transactions",
}

// resolveList digs a record list out of a wrapped object. Reports false when
// no conventional key holds a list.
func resolveList(obj map[string]any) ([]any, bool) {
	for _, path := range wrappedListPaths {
		v, err := jsonpath.Get(path, any(obj))
		if err != nil {
			continue
		}
		if list, ok := v.([]any); ok {
			return list, true
		}
	}
	return nil, false
}

// flattenEntries undoes hledger's outer nesting. Balance JSON arrives as
// [[row, row, ...], [totalAmounts]]: when an element is itself a list of
// rows (its own first element is an array), its rows are spliced in place
// of the element.
func flattenEntries(list []any) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		inner, ok := item.([]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if len(inner) > 0 {
			if _, nested := inner[0].([]any); nested {
				out = append(out, inner...)
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// stringField returns the first non-empty string found under any of the
// given keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
