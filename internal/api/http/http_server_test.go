package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/okulova/allocation-engine/internal/adapter/in_memory"
	"github.com/okulova/allocation-engine/internal/api/dto"
	"github.com/okulova/allocation-engine/internal/core"
)

func decimalFromInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newTestServer() (*HTTPServer, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	dir := core.NewDirectory(in_memory.NewJournal(), in_memory.NewCache())
	s := NewHTTPServer(dir, zap.NewNop())
	s.RateLimit = 0
	return s, s.router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", "test-client")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestBookWorkflowOverHTTP(t *testing.T) {
	_, r := newTestServer()

	w := doJSON(t, r, http.MethodPost, "/books", dto.CreateBookRequest{InstrumentName: "ACME"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create book: %d %s", w.Code, w.Body.String())
	}
	created := decode[dto.CreateBookResponse](t, w)

	// orders are rejected until the book opens
	w = doJSON(t, r, http.MethodPost, "/books/0/orders", dto.AddOrderRequest{Type: dto.Market, Quantity: 10})
	if w.Code != http.StatusConflict {
		t.Fatalf("order on closed book: %d %s", w.Code, w.Body.String())
	}
	rej := decode[dto.RejectionResponse](t, w)
	if rej.Code != "ORDER_ON_CLOSED_BOOK" {
		t.Fatalf("rejection code = %s", rej.Code)
	}

	if w = doJSON(t, r, http.MethodPost, "/books/0/open", nil); w.Code != http.StatusOK {
		t.Fatalf("open: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/books/0/orders", dto.AddOrderRequest{Type: dto.Market, Quantity: 10})
	if w.Code != http.StatusCreated {
		t.Fatalf("add order: %d %s", w.Code, w.Body.String())
	}
	orderResp := decode[dto.AddOrderResponse](t, w)

	if w = doJSON(t, r, http.MethodPost, "/books/0/close", nil); w.Code != http.StatusOK {
		t.Fatalf("close: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/books/0/executions", dto.AddExecutionRequest{
		Quantity: 10, UnitPrice: decimalFromInt(20),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add execution: %d %s", w.Code, w.Body.String())
	}
	execResp := decode[dto.AddExecutionResponse](t, w)
	if !execResp.Processed {
		t.Fatalf("offer matching valid demand must auto-process")
	}

	w = doJSON(t, r, http.MethodGet, "/orders/"+orderResp.OrderID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("order report: %d %s", w.Code, w.Body.String())
	}
	report := decode[dto.OrderReportResponse](t, w)
	if report.SatisfiedQuantity != 10 {
		t.Fatalf("satisfied = %d, want 10", report.SatisfiedQuantity)
	}

	w = doJSON(t, r, http.MethodGet, "/books/0/statistics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statistics: %d %s", w.Code, w.Body.String())
	}
	stats := decode[dto.StatisticsResponse](t, w)
	if stats.TotalOrders != 1 || stats.Demand != 10 || !stats.Processed {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if created.InstrumentID == "" {
		t.Fatalf("create response missing instrument id")
	}
}

func TestOverOfferRejectionOverHTTP(t *testing.T) {
	_, r := newTestServer()

	doJSON(t, r, http.MethodPost, "/books", dto.CreateBookRequest{InstrumentName: "X"})
	doJSON(t, r, http.MethodPost, "/books/0/open", nil)
	doJSON(t, r, http.MethodPost, "/books/0/orders", dto.AddOrderRequest{Type: dto.Market, Quantity: 30})
	doJSON(t, r, http.MethodPost, "/books/0/close", nil)

	w := doJSON(t, r, http.MethodPost, "/books/0/executions", dto.AddExecutionRequest{
		Quantity: 31, UnitPrice: decimalFromInt(20),
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-offer: %d %s", w.Code, w.Body.String())
	}
	rej := decode[dto.RejectionResponse](t, w)
	if rej.Code != "EXECUTION_OVER_OFFER" {
		t.Fatalf("rejection code = %s", rej.Code)
	}
	if rej.MaxAcceptable == nil || *rej.MaxAcceptable != 30 {
		t.Fatalf("max acceptable missing or wrong: %+v", rej.MaxAcceptable)
	}
}

func TestBadInputOverHTTP(t *testing.T) {
	_, r := newTestServer()
	doJSON(t, r, http.MethodPost, "/books", dto.CreateBookRequest{InstrumentName: "X"})
	doJSON(t, r, http.MethodPost, "/books/0/open", nil)

	w := doJSON(t, r, http.MethodPost, "/books/0/orders", dto.AddOrderRequest{Type: "ODD", Quantity: 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad order type: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/books/0/orders", dto.AddOrderRequest{Type: dto.Limit, Quantity: 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("limit order without price: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/books/notanumber", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/books/7", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown book: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/orders/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown order: %d", w.Code)
	}
}

func TestProcessGuardsOverHTTP(t *testing.T) {
	_, r := newTestServer()
	doJSON(t, r, http.MethodPost, "/books", dto.CreateBookRequest{InstrumentName: "X"})
	doJSON(t, r, http.MethodPost, "/books/0/open", nil)

	w := doJSON(t, r, http.MethodPost, "/books/0/process", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("process on open book: %d %s", w.Code, w.Body.String())
	}
}
