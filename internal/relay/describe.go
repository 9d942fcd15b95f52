package relay

import (
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/stripe-relay/internal/orders"
)

// orderIDKeys are the charge metadata keys that may carry the external order
// id, consulted in precedence order. The processor lowercases metadata keys
// upstream, so the flattened form comes first; resource_id is kept last for
// compatibility with older checkout flows.
var orderIDKeys = []string{"orderid", "order_id", "resource_id"}

// maxDescriptionLen caps the description written onto the payment intent,
// counted in characters rather than bytes.
const maxDescriptionLen = 500

// orderIDFromMetadata returns the first usable order id found in the
// charge metadata, or empty when none of the candidate keys is set.
func orderIDFromMetadata(metadata map[string]string) string {
	for _, key := range orderIDKeys {
		if value := strings.TrimSpace(metadata[key]); value != "" {
			return value
		}
	}
	return ""
}

// buildDescription joins the order's non-empty product names into a single
// capped string. Returns empty when no line item carries a usable name.
func buildDescription(items []orders.LineItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	joined := strings.Join(names, ", ")
	if utf8.RuneCountInString(joined) > maxDescriptionLen {
		runes := []rune(joined)
		joined = string(runes[:maxDescriptionLen])
	}
	return joined
}
