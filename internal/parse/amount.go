package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Key spellings seen across tool variants for the value carried by an
// amount-bearing object.
var (
	directAmountKeys = []string{"amount", "value", "quantity", "aquantity"}
	amountListKeys   = []string{"pamount", "amounts", "amount"}
	quantityKeys     = []string{"aquantity", "quantity"}
)

// DecodeAmount converts one raw amount representation into a signed decimal.
//
// It accepts plain numbers, numeric strings with currency decoration, lists
// of per-commodity amounts (summed), and the nested quantity objects hledger
// emits (either a precomputed floatingPoint or a decimalMantissa/decimalPlaces
// pair, value = mantissa / 10^places). Both extractors share this decoder so
// numeric semantics cannot diverge. Anything unparsable decodes to zero.
func DecodeAmount(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case string:
		return decodeAmountString(val)
	case []any:
		sum := decimal.Zero
		for _, item := range val {
			sum = sum.Add(DecodeAmount(item))
		}
		return sum
	case map[string]any:
		return decodeAmountMap(val)
	default:
		return decimal.Zero
	}
}

func decodeAmountMap(m map[string]any) decimal.Decimal {
	// Direct numeric field wins.
	for _, key := range directAmountKeys {
		if d, ok := decodeNumber(m[key]); ok {
			return d
		}
	}
	// Nested list of per-commodity amounts.
	for _, key := range amountListKeys {
		if list, ok := m[key].([]any); ok {
			return DecodeAmount(list)
		}
	}
	// The map may itself be a quantity object, or wrap one.
	if d, ok := decodeQuantity(m); ok {
		return d
	}
	for _, key := range quantityKeys {
		if sub, ok := m[key].(map[string]any); ok {
			if d, ok := decodeQuantity(sub); ok {
				return d
			}
		}
	}
	return decimal.Zero
}

// decodeQuantity reads hledger's quantity encoding: a precomputed
// floatingPoint when present, otherwise decimalMantissa scaled down by
// decimalPlaces (places 0 means no scaling).
func decodeQuantity(m map[string]any) (decimal.Decimal, bool) {
	if d, ok := decodeNumber(m["floatingPoint"]); ok {
		return d, true
	}
	mantissa, ok := decodeNumber(m["decimalMantissa"])
	if !ok {
		return decimal.Zero, false
	}
	places, ok := decodeNumber(m["decimalPlaces"])
	if !ok || places.IsZero() {
		return mantissa, true
	}
	return mantissa.Shift(int32(-places.IntPart())), true
}

func decodeNumber(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	default:
		return decimal.Zero, false
	}
}

// textAmountRe captures the sign and numeric body of a currency-decorated
// token like "$-1,234.56" or "-€45.00": at most one leading currency symbol,
// with the sign on either side of it.
var textAmountRe = regexp.MustCompile(`^([-+]?)[^\d.,+-]?([-+]?)(\d[\d,]*(?:\.\d+)?|\.\d+)$`)

// decodeAmountString parses plain-text amounts. Unparsable strings decode to
// zero.
func decodeAmountString(s string) decimal.Decimal {
	m := textAmountRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero
	}
	if m[1] != "" && m[2] != "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[3], ",", ""))
	if err != nil {
		return decimal.Zero
	}
	if m[1] == "-" || m[2] == "-" {
		return d.Neg()
	}
	return d
}
