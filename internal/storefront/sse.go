package storefront

import (
	"encoding/json"
	"fmt"
	"net/http"

	"Halwa/internal/cart"
	"Halwa/pkg/kit"
)

// events streams cart snapshots as server-sent events so badge and
// mini-cart views re-render live. The first event carries the current
// state; every mutation broadcast follows.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	st := s.store(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan cart.Snapshot, 8)
	cancel := st.Subscribe(func(snap cart.Snapshot) {
		select {
		case ch <- snap:
		default:
			// slow client: drop the frame, the next one carries full state
		}
	})
	defer cancel()

	if !writeEvent(w, fl, st.Snapshot(r.Context())) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-ch:
			if !writeEvent(w, fl, snap) {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, fl http.Flusher, snap cart.Snapshot) bool {
	b, err := json.Marshal(cartView{Items: snap.Lines, Totals: snap.Totals})
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return false
	}
	fl.Flush()
	return true
}
