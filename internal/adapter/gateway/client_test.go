package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "secret", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "secret", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestStartOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/start-order" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if got := r.Header.Get("X-Signature"); got != Sign([]byte("secret"), body) {
			t.Errorf("signature mismatch")
		}
		json.NewEncoder(w).Encode(startOrderResponse{
			Success: true, OrderID: "GW-1", PaymentURL: "upi://pay?tid=GW-1",
		})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.StartOrder(context.Background(), "MCGG-ABCDEFGHJK", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("start order returned error: %v", err)
	}
	if result.PaymentURL != "upi://pay?tid=GW-1" || result.GatewayOrderID != "GW-1" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestStartOrderRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(startOrderResponse{Success: false, Message: "amount too low"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.StartOrder(context.Background(), "MCGG-1", decimal.NewFromInt(1)); err == nil {
		t.Fatal("expected error when gateway refuses")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status model.GatewayStatus
		utr    string
	}{
		{"pending", `{"status":"PENDING"}`, model.GatewayStatusPending, ""},
		{"success with utr", `{"status":"SUCCESS","utr":"UTR42"}`, model.GatewayStatusSuccess, "UTR42"},
		{"failed", `{"status":"FAILED"}`, model.GatewayStatusFailed, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/check-order-status" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewHTTPClient(server.URL, "secret", testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			result, err := client.CheckStatus(context.Background(), "MCGG-1")
			if err != nil {
				t.Fatalf("check status returned error: %v", err)
			}
			if result.Status != tc.status || result.UTR != tc.utr {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestCheckStatusUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"MAYBE"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.CheckStatus(context.Background(), "MCGG-1"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCheckStatusServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.CheckStatus(context.Background(), "MCGG-1"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("secret")
	body := []byte(`{"orderId":"MCGG-1","status":"SUCCESS"}`)

	if !VerifySignature(secret, body, Sign(secret, body)) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifySignature(secret, body, "deadbeef") {
		t.Fatal("expected bogus signature to fail")
	}
	if VerifySignature([]byte("other"), body, Sign(secret, body)) {
		t.Fatal("expected wrong secret to fail")
	}
}
