package server

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "shippingbridge/internal/calculate"
)

// helper to parse the platform's flat error envelope
type flatError struct {
    Error   string `json:"error"`
    Message string `json:"message"`
}

type stubQuoter struct {
    quote *calculate.ServiceQuote
    err   error
}

func (s stubQuoter) Quote(_ context.Context, _ calculate.QuoteParams, _ string) (*calculate.ServiceQuote, error) {
    return s.quote, s.err
}

func TestHealthz(t *testing.T) {
    h := New(Options{})
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if body := rr.Body.String(); body != "ok" {
        t.Fatalf("expected body 'ok', got %q", body)
    }
}

func TestRequestIDHeaderPresent(t *testing.T) {
    h := New(Options{})
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rid := rr.Header().Get("X-Request-ID"); rid == "" {
        t.Fatalf("expected X-Request-ID header to be set")
    }
}

func calculateBody(appData string) string {
    return `{
        "params": {
            "to": {"zip": "01310-100"},
            "items": [{"price": 100, "quantity": 1, "weight": {"value": 1, "unit": "kg"}}]
        },
        "application": {"hidden_data": ` + appData + `}
    }`
}

func TestCalculateShipping_Offer(t *testing.T) {
    h := New(Options{Quoter: stubQuoter{quote: &calculate.ServiceQuote{Price: 20, DeliveryDays: 5}}})
    body := calculateBody(`{"mandabem_id": "123", "mandabem_key": "abc", "zip": "01001-000",
        "services": [{"service_name": "PAC"}]}`)
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var resp calculate.Response
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if len(resp.ShippingServices) != 1 {
        t.Fatalf("expected 1 offer, got %d", len(resp.ShippingServices))
    }
    offer := resp.ShippingServices[0]
    if offer.ServiceName != "PAC" || offer.ShippingLine.TotalPrice != 20 {
        t.Fatalf("unexpected offer: %+v", offer)
    }
    if offer.ShippingLine.DeliveryTime.Days != 5 {
        t.Fatalf("unexpected delivery time: %+v", offer.ShippingLine.DeliveryTime)
    }
}

func TestCalculateShipping_AuthError(t *testing.T) {
    h := New(Options{})
    body := calculateBody(`{}`)
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusConflict {
        t.Fatalf("expected 409, got %d", rr.Code)
    }
    var e flatError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if e.Error != calculate.CodeAuthErr {
        t.Fatalf("unexpected error code: %s", e.Error)
    }
}

func TestCalculateShipping_EmptyCart(t *testing.T) {
    h := New(Options{})
    body := `{
        "params": {"to": {"zip": "01310-100"}, "items": []},
        "application": {"hidden_data": {"mandabem_id": "123", "mandabem_key": "abc", "zip": "01001-000"}}
    }`
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var e flatError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if e.Error != calculate.CodeEmptyCart {
        t.Fatalf("unexpected error code: %s", e.Error)
    }
}

func TestCalculateShipping_UnknownUnit(t *testing.T) {
    h := New(Options{})
    body := `{
        "params": {
            "to": {"zip": "01310-100"},
            "items": [{"price": 100, "quantity": 1, "weight": {"value": 1, "unit": "oz"}}]
        },
        "application": {"hidden_data": {"mandabem_id": "123", "mandabem_key": "abc", "zip": "01001-000"}}
    }`
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var e flatError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if e.Error != calculate.CodeInvalidItems {
        t.Fatalf("unexpected error code: %s", e.Error)
    }
}

func TestCalculateShipping_AllFailed(t *testing.T) {
    h := New(Options{Quoter: stubQuoter{err: errors.New("connection refused")}})
    body := calculateBody(`{"mandabem_id": "123", "mandabem_key": "abc", "zip": "01001-000"}`)
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusConflict {
        t.Fatalf("expected 409, got %d", rr.Code)
    }
    var e flatError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if e.Error != calculate.CodeFailed || e.Message != "connection refused" {
        t.Fatalf("unexpected error: %+v", e)
    }
}

func TestCalculateShipping_FreeShippingPreview(t *testing.T) {
    h := New(Options{})
    body := `{
        "params": {},
        "application": {"hidden_data": {"mandabem_id": "123", "mandabem_key": "abc",
            "shipping_rules": [{"free_shipping": true, "min_amount": 150}]}}
    }`
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var resp calculate.Response
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if len(resp.ShippingServices) != 0 {
        t.Fatalf("expected no offers, got %d", len(resp.ShippingServices))
    }
    if resp.FreeShippingFromValue == nil || *resp.FreeShippingFromValue != 150 {
        t.Fatalf("unexpected hint: %v", resp.FreeShippingFromValue)
    }
}

func TestCalculateShipping_InvalidBody(t *testing.T) {
    h := New(Options{})
    req := httptest.NewRequest(http.MethodPost, "/ecom/modules/calculate-shipping", strings.NewReader("{"))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", rr.Code)
    }
}
