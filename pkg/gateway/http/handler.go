package httpgateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine"
	"github.com/joripage/exchange-core/pkg/engine/model"
	"github.com/joripage/exchange-core/pkg/orderbook"
)

// accountHeader identifies the submitting account. Requests without it
// are rejected; there is no anonymous trading.
const accountHeader = "X-Account"

// Handler exposes the matching engine over HTTP.
type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// submitResponse is the JSON response for bid/ask submissions.
type submitResponse struct {
	Status  string          `json:"status"`
	OrderID int64           `json:"order_id"`
	Trades  []tradeResponse `json:"trades"`
}

// tradeResponse is a single executed trade.
type tradeResponse struct {
	TradeID    int64  `json:"trade_id"`
	Symbol     string `json:"symbol"`
	Price      string `json:"price"`
	Qty        int64  `json:"qty"`
	Buyer      string `json:"buyer"`
	Seller     string `json:"seller"`
	ExecutedAt string `json:"executed_at"`
}

// orderResponse is a resting order in a depth snapshot.
type orderResponse struct {
	OrderID int64  `json:"order_id"`
	Side    string `json:"side"`
	Price   string `json:"price"`
	Qty     int64  `json:"qty"`
	Account string `json:"account"`
}

// depthResponse is the JSON response for GET /{symbol}/depth.
type depthResponse struct {
	Symbol string          `json:"symbol"`
	Bids   []orderResponse `json:"bids"`
	Asks   []orderResponse `json:"asks"`
}

// tradesResponse is the JSON response for GET /{symbol}/trades.
type tradesResponse struct {
	Symbol string          `json:"symbol"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
	Trades []tradeResponse `json:"trades"`
}

// SubmitBid handles POST /{symbol}/bid/{price}.
func (h *Handler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, orderbook.Bid)
}

// SubmitAsk handles POST /{symbol}/ask/{price}.
func (h *Handler) SubmitAsk(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, orderbook.Ask)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, side orderbook.Side) {
	account := r.Header.Get(accountHeader)
	if account == "" {
		WriteError(w, http.StatusBadRequest, "missing_account", "X-Account header is required")
		return
	}

	symbol := chi.URLParam(r, "symbol")

	price, err := decimal.NewFromString(chi.URLParam(r, "price"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal number")
		return
	}

	qty := int64(1)
	if s := r.URL.Query().Get("qty"); s != "" {
		qty, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_qty", "qty must be an integer")
			return
		}
	}

	res, err := h.engine.Submit(symbol, side, price, qty, account)
	if err != nil {
		mapEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildSubmitResponse(res))
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be an integer")
		return
	}

	if err := h.engine.Cancel(orderID); err != nil {
		mapEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "CANCELLED"})
}

// GetDepth handles GET /{symbol}/depth.
func (h *Handler) GetDepth(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Depth(chi.URLParam(r, "symbol"))

	resp := depthResponse{
		Symbol: snap.Symbol,
		Bids:   buildOrderResponses(snap.Bids),
		Asks:   buildOrderResponses(snap.Asks),
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetTrades handles GET /{symbol}/trades with optional offset/limit.
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}

	trades := h.engine.Trades(symbol, offset, limit)
	WriteJSON(w, http.StatusOK, tradesResponse{
		Symbol: symbol,
		Offset: offset,
		Limit:  limit,
		Trades: buildTradeResponses(trades),
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func buildSubmitResponse(res *model.SubmitResult) submitResponse {
	return submitResponse{
		Status:  string(res.Status),
		OrderID: res.OrderID,
		Trades:  buildTradeResponses(res.Trades),
	}
}

func buildTradeResponses(trades []model.Trade) []tradeResponse {
	result := make([]tradeResponse, len(trades))
	for i, t := range trades {
		result[i] = tradeResponse{
			TradeID:    t.ID,
			Symbol:     t.Symbol,
			Price:      t.Price.StringFixed(2),
			Qty:        t.Qty,
			Buyer:      t.Buyer,
			Seller:     t.Seller,
			ExecutedAt: t.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		}
	}
	return result
}

func buildOrderResponses(orders []orderbook.Order) []orderResponse {
	result := make([]orderResponse, len(orders))
	for i, o := range orders {
		result[i] = orderResponse{
			OrderID: o.ID,
			Side:    string(o.Side),
			Price:   o.Price.StringFixed(2),
			Qty:     o.Qty,
			Account: o.Account,
		}
	}
	return result
}

// mapEngineError maps engine errors to HTTP responses.
func mapEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidOrder):
		WriteError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, engine.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
