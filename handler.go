package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type itemRequest struct {
	Text   string `json:"text"`
	League string `json:"league"`
}

type itemResponse struct {
	Query   *TradeQuery   `json:"query"`
	Filters *TradeFilters `json:"filters"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// handleItemRequest turns a JSON {"text": ..., "league": ...} body into a
// status code and a JSON-serializable payload.
func handleItemRequest(sess *Session, body []byte) (int, any) {
	var req itemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()}
	}
	if strings.TrimSpace(req.Text) == "" {
		return http.StatusBadRequest, errorResponse{Error: "missing text field"}
	}

	q, f, err := sess.Query(req.Text)
	if err != nil {
		var fe *ItemFormatError
		switch {
		case errors.As(err, &fe):
			return http.StatusUnprocessableEntity, errorResponse{Error: fe.Error(), Kind: fe.Kind.String(), Field: fe.Field}
		case errors.Is(err, ErrCatalogsNotLoaded):
			return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
		}
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}

	if req.League != "" && req.League != q.League {
		// q and f are shared with the session cache.
		qc, fc := *q, *f
		qc.League = req.League
		fc.League = textFilter(req.League)
		q, f = &qc, &fc
	}
	return http.StatusOK, itemResponse{Query: q, Filters: f}
}
