package storefront

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Halwa/internal/cart"
	"Halwa/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Carts  *Manager
	Tokens *TokenMaker
	Probe  cart.Storage
	Log    *zap.Logger
}

func (s *Server) logWarn(msg string, err error) {
	if s.Log != nil {
		s.Log.Warn(msg, zap.Error(err))
	}
}

// cartView is the full cart page payload. Message carries the toast text
// for mutations.
type cartView struct {
	Items   []cart.Line `json:"items"`
	Totals  cart.Totals `json:"totals"`
	Message string      `json:"message,omitempty"`
}

func (s *Server) store(r *http.Request) *cart.Store {
	id, _ := cartIDFromContext(r.Context())
	return s.Carts.Store(id)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	snap := s.store(r).Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusOK, cartView{Items: snap.Lines, Totals: snap.Totals})
}

type addReq struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Img      string  `json:"img"`
	DataHigh string  `json:"dataHigh"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req addReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	st := s.store(r)
	st.Add(r.Context(), req.Name, cart.AddOptions{
		ID:       req.ID,
		Price:    req.Price,
		Qty:      req.Qty,
		Img:      req.Img,
		DataHigh: req.DataHigh,
	})

	snap := st.Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusCreated, cartView{
		Items:   snap.Lines,
		Totals:  snap.Totals,
		Message: fmt.Sprintf("\"%s\" added to cart.", req.Name),
	})
}

func (s *Server) setQty(w http.ResponseWriter, r *http.Request) {
	st := s.store(r)

	// a stale or garbage index skips the mutation; the handler still
	// answers with the current state
	if idx, err := strconv.Atoi(chi.URLParam(r, "index")); err == nil {
		st.SetQty(r.Context(), idx, decodeQty(w, r))
	}

	snap := st.Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusOK, cartView{Items: snap.Lines, Totals: snap.Totals})
}

// decodeQty coerces whatever arrived in the body to a quantity. Anything
// that is not a number reads as 0, which removes the line, same as typing
// junk into a quantity input.
func decodeQty(w http.ResponseWriter, r *http.Request) float64 {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		Qty *float64 `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Qty == nil {
		return 0
	}
	return *req.Qty
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	st := s.store(r)

	if idx, err := strconv.Atoi(chi.URLParam(r, "index")); err == nil {
		st.Remove(r.Context(), idx)
	}

	snap := st.Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusOK, cartView{Items: snap.Lines, Totals: snap.Totals, Message: "Item removed"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	st := s.store(r)
	st.Clear(r.Context())

	snap := st.Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusOK, cartView{Items: snap.Lines, Totals: snap.Totals, Message: "Cart cleared"})
}

func (s *Server) badge(w http.ResponseWriter, r *http.Request) {
	tot := s.store(r).Totals(r.Context())
	kit.WriteJSON(w, http.StatusOK, map[string]int{"count": tot.ItemCount})
}

// miniCart is the popover payload: lines plus subtotal only.
func (s *Server) miniCart(w http.ResponseWriter, r *http.Request) {
	snap := s.store(r).Snapshot(r.Context())
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"items":    snap.Lines,
		"subtotal": snap.Totals.Subtotal,
	})
}

// checkoutSummary is read-only: totals, no mutation callbacks.
func (s *Server) checkoutSummary(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.store(r).Totals(r.Context()))
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req contactReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email and message required", nil)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Friend"
	}

	// demo form: the message goes nowhere, only the ack is real
	kit.WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Thanks %s! Your message is noted (demo).", name),
	})
}
