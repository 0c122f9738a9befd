package transport

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint writes:
// {success, message?, data?, pagination?}.
type Response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

func NewPagination(page, limit int64, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + limit - 1) / limit)
	}
	return &Pagination{
		Current: int(page),
		Pages:   pages,
		Total:   total,
		Limit:   int(limit),
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Response{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func WritePage(w http.ResponseWriter, status int, data interface{}, p *Pagination) {
	WriteJSON(w, status, Response{Success: true, Data: data, Pagination: p})
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, Response{Success: false, Message: message, Details: details})
}
