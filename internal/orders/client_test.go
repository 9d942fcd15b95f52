package orders_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/stripe-relay/internal/orders"
)

func TestNewClientInstrumentsTransport(t *testing.T) {
	t.Parallel()

	client := orders.NewClient("http://orders.invalid/", "key", time.Second)
	require.Equal(t, "http://orders.invalid", client.BaseURL)
	require.Equal(t, time.Second, client.HTTP.Timeout)
	require.IsType(t, &otelhttp.Transport{}, client.HTTP.Transport)
}

func TestGetSendsAuthAndDecodes(t *testing.T) {
	t.Parallel()

	orderID := uuid.NewString()
	var gotPath, gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + orderID + `","orderNumber":42,"lineItems":[{"productName":"Mechanical Keyboard"},{"productName":"Mouse"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := orders.NewClient(srv.URL+"/api/orders/", "orders-key", time.Second)
	order, err := client.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.Equal(t, "/api/orders/"+orderID, gotPath)
	require.Equal(t, "Bearer orders-key", gotAuth)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, orderID, order.ID)
	require.Equal(t, int64(42), order.OrderNumber)
	require.Len(t, order.LineItems, 2)
	require.Equal(t, "Mechanical Keyboard", order.LineItems[0].ProductName)
}

func TestGetEscapesOrderID(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	t.Cleanup(srv.Close)

	client := orders.NewClient(srv.URL, "key", time.Second)
	_, err := client.Get(context.Background(), "ord/1 2")
	require.NoError(t, err)
	require.Equal(t, "/ord%2F1%202", gotPath)
}

func TestGetNon2xxReturnsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	t.Cleanup(srv.Close)

	client := orders.NewClient(srv.URL, "key", time.Second)
	_, err := client.Get(context.Background(), "ord_1")
	require.Error(t, err)

	var fetchErr *orders.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	require.Contains(t, fetchErr.Status, "502")
	require.Equal(t, "upstream exploded", fetchErr.Body)
	require.Contains(t, err.Error(), "502")
	require.Contains(t, err.Error(), "upstream exploded")
}

func TestGetEmptyIDRejected(t *testing.T) {
	t.Parallel()

	client := orders.NewClient("http://orders.invalid", "key", time.Second)
	_, err := client.Get(context.Background(), "  ")
	require.Error(t, err)
}
