package apimodel

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// PanelHealth is the JSON document returned by the health endpoint. A
// panel with missing displays still reports healthy operation; the
// failed slot names let the caller see which tiles are dark.
type PanelHealth struct {
	ActiveDisplays int      `json:"active_displays"`
	TotalDisplays  int      `json:"total_displays"`
	FailedSlots    []string `json:"failed_slots,omitempty"`
	Version        string   `json:"version"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
}

type ErrorMessage struct {
	ErrStatusCode int    `json:"status_code"`
	ErrMessage    string `json:"message"`
}

func (e *ErrorMessage) Error() string {
	if e.ErrMessage != "" {
		return strconv.Itoa(e.ErrStatusCode) + ":" + e.ErrMessage
	}
	return strconv.Itoa(e.ErrStatusCode)
}

func (e ErrorMessage) Send(w http.ResponseWriter) {
	if e.ErrMessage == "" {
		switch e.ErrStatusCode {
		case http.StatusOK:
			e.ErrMessage = "Ok"
		case http.StatusNotFound:
			e.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			e.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			e.ErrMessage = "Forbidden"
		case http.StatusBadRequest:
			e.ErrMessage = "Bad request"
		default:
			e.ErrMessage = "Internal error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.ErrStatusCode)
	json.NewEncoder(w).Encode(e)
}
