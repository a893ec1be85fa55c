package httpgateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joripage/exchange-core/pkg/engine"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(engine.New(nil)))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, account string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if account != "" {
		req.Header.Set("X-Account", account)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, body
}

func TestSubmitBidRests(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00", "alice")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["status"] != "RESTING" {
		t.Errorf("status = %v", body["status"])
	}
	if body["order_id"] == nil {
		t.Error("expected order_id")
	}
}

func TestSubmitCrossingOrdersTrade(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, http.MethodPost, srv.URL+"/AAPL/ask/150.00?qty=2", "seller")
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/151.00?qty=2", "buyer")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["status"] != "EXECUTED" {
		t.Errorf("status = %v", body["status"])
	}

	trades := body["trades"].([]any)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	trade := trades[0].(map[string]any)
	if trade["price"] != "150.50" {
		t.Errorf("price = %v, want midpoint 150.50", trade["price"])
	}
	if trade["buyer"] != "buyer" || trade["seller"] != "seller" {
		t.Errorf("unexpected counterparties: %v", trade)
	}
}

func TestSubmitMissingAccount(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "missing_account" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestSubmitInvalidPrice(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/abc", "alice")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "invalid_price" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestSubmitRejectedQty(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00?qty=0", "alice")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "invalid_order" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestDepthSnapshot(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00", "alice")
	doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/151.00", "bob")
	doRequest(t, http.MethodPost, srv.URL+"/AAPL/ask/152.00", "carol")

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/AAPL/depth", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	bids := body["bids"].([]any)
	asks := body["asks"].([]any)
	if len(bids) != 2 || len(asks) != 1 {
		t.Fatalf("depth = %d bids, %d asks", len(bids), len(asks))
	}
	best := bids[0].(map[string]any)
	if best["price"] != "151.00" {
		t.Errorf("best bid = %v", best["price"])
	}
}

func TestDepthUnknownSymbolEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/NOPE/depth", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(body["bids"].([]any)) != 0 || len(body["asks"].([]any)) != 0 {
		t.Errorf("expected empty depth, got %v", body)
	}
}

func TestTradesPagination(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		doRequest(t, http.MethodPost, srv.URL+"/AAPL/ask/150.00", "seller")
		doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00", "buyer")
	}

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/AAPL/trades?offset=1&limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	trades := body["trades"].([]any)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].(map[string]any)["trade_id"].(float64) != 2 {
		t.Errorf("unexpected trade: %v", trades[0])
	}
}

func TestCancelOrder(t *testing.T) {
	srv := newTestServer(t)

	_, body := doRequest(t, http.MethodPost, srv.URL+"/AAPL/bid/150.00", "alice")
	orderID := int64(body["order_id"].(float64))

	resp, _ := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/orders/%d", srv.URL, orderID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp, body = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/orders/%d", srv.URL, orderID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second cancel status = %d", resp.StatusCode)
	}
	if body["error"] != "order_not_found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doRequest(t, http.MethodDelete, srv.URL+"/orders/9999", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
