// Package api exposes the exchange core over REST for calling collaborators
// (frontends, strategy engines, test harnesses).
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/meridian-dex/meridian/pkg/exchange"
)

type Server struct {
	ex     *exchange.Exchange
	router *mux.Router
	log    *zap.Logger
}

func NewServer(ex *exchange.Exchange, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		ex:     ex,
		router: mux.NewRouter(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Pair endpoints
	api.HandleFunc("/pairs", s.handleGetPairs).Methods("GET")
	api.HandleFunc("/pairs/{symbol}/orderbook", s.handleGetOrderbook).Methods("GET")
	api.HandleFunc("/pairs/{symbol}/trades", s.handleGetTrades).Methods("GET")

	// Order endpoints
	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods("GET")

	// Account endpoints
	api.HandleFunc("/accounts/{owner}/orders", s.handleGetUserOrders).Methods("GET")

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler, useful for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.log.Info("api server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleGetPairs(w http.ResponseWriter, r *http.Request) {
	pairs := s.ex.Pairs().List()
	response := make([]PairInfo, len(pairs))
	for i, p := range pairs {
		response[i] = PairInfo{
			Symbol:       p.Symbol,
			BaseAsset:    p.BaseAsset,
			QuoteAsset:   p.QuoteAsset,
			Status:       p.Status.String(),
			TickSize:     p.TickSize,
			LotSize:      p.LotSize,
			MinNotional:  p.MinNotional,
			MinOrderSize: p.MinOrderSize,
			MaxOrderSize: p.MaxOrderSize,
			MakerFeeBps:  p.MakerFeeBps,
			TakerFeeBps:  p.TakerFeeBps,
		}
	}
	respondJSON(w, response)
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	depth := 0
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "bad request", "depth must be a non-negative integer")
			return
		}
		depth = n
	}

	snap, ok := s.ex.OrderBookSnapshot(symbol, depth)
	if !ok {
		respondError(w, http.StatusNotFound, "pair not found", symbol)
		return
	}
	respondJSON(w, snap)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if !s.ex.Pairs().Exists(symbol) {
		respondError(w, http.StatusNotFound, "pair not found", symbol)
		return
	}
	respondJSON(w, s.ex.TradeHistory(symbol))
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	side, err := parseSide(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	typ, err := parseType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	order, err := s.ex.PlaceOrder(exchange.PlaceRequest{
		Pair:      req.Pair,
		Owner:     req.Owner,
		Side:      side,
		Type:      typ,
		Amount:    req.Amount,
		Price:     req.Price,
		StopPrice: req.StopPrice,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, exchange.ErrInvalidOrder) {
			respondJSONStatus(w, http.StatusUnprocessableEntity, SubmitOrderResponse{
				Status: "rejected",
				Order:  orderInfo(order),
				Reason: err.Error(),
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	respondJSON(w, SubmitOrderResponse{Status: "accepted", Order: orderInfo(order)})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	respondJSON(w, CancelOrderResponse{Cancelled: s.ex.CancelOrder(req.OrderID, req.Owner)})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	o, ok := s.ex.GetOrder(id)
	if !ok {
		respondError(w, http.StatusNotFound, "order not found", id)
		return
	}
	respondJSON(w, orderInfo(o))
}

func (s *Server) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["owner"]
	orders := s.ex.UserOrders(owner)
	response := make([]OrderInfo, len(orders))
	for i, o := range orders {
		response[i] = orderInfo(o)
	}
	respondJSON(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, v any) {
	respondJSONStatus(w, http.StatusOK, v)
}

func respondJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg, detail string) {
	respondJSONStatus(w, code, ErrorResponse{Error: msg, Message: detail})
}
