package relay

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stripe-relay/internal/orders"
)

func TestOrderIDFromMetadataPrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{"orderid alone", map[string]string{"orderid": "a"}, "a"},
		{"order_id alone", map[string]string{"order_id": "b"}, "b"},
		{"resource_id alone", map[string]string{"resource_id": "c"}, "c"},
		{"orderid wins over order_id", map[string]string{"orderid": "a", "order_id": "b"}, "a"},
		{"order_id wins over resource_id", map[string]string{"order_id": "b", "resource_id": "c"}, "b"},
		{"all three present", map[string]string{"orderid": "a", "order_id": "b", "resource_id": "c"}, "a"},
		{"blank value falls through", map[string]string{"orderid": "  ", "order_id": "b"}, "b"},
		{"none present", map[string]string{"other": "x"}, ""},
		{"nil metadata", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, orderIDFromMetadata(tc.metadata))
		})
	}
}

func TestBuildDescription(t *testing.T) {
	t.Parallel()

	items := []orders.LineItem{
		{ProductName: "A"},
		{ProductName: " "},
		{ProductName: "B"},
	}
	require.Equal(t, "A, B", buildDescription(items))

	require.Equal(t, "", buildDescription(nil))
	require.Equal(t, "", buildDescription([]orders.LineItem{{ProductName: "   "}, {ProductName: ""}}))
	require.Equal(t, "Solo", buildDescription([]orders.LineItem{{ProductName: "  Solo  "}}))
}

func TestBuildDescriptionTruncatesAt500(t *testing.T) {
	t.Parallel()

	items := make([]orders.LineItem, 60)
	for i := range items {
		items[i] = orders.LineItem{ProductName: strings.Repeat("x", 20)}
	}
	got := buildDescription(items)
	require.Len(t, got, 500)
	require.True(t, strings.HasPrefix(got, strings.Repeat("x", 20)+", "))
}

func TestBuildDescriptionTruncatesOnCharacterBoundaries(t *testing.T) {
	t.Parallel()

	got := buildDescription([]orders.LineItem{{ProductName: strings.Repeat("é", 600)}})
	require.Equal(t, 500, utf8.RuneCountInString(got))
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("é", 500), got)

	// Multi-byte names under the cap pass through untouched.
	short := buildDescription([]orders.LineItem{
		{ProductName: "A"},
		{ProductName: strings.Repeat("é", 250)},
	})
	require.True(t, utf8.ValidString(short))
	require.Equal(t, "A, "+strings.Repeat("é", 250), short)
}
