package dto

import "math"

// Pagination describes one page of a listing. Pages is ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Envelope is the {success, message?, data, pagination?} body.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKWithMessage(message string, data interface{}) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Paged(data interface{}, pagination Pagination) Envelope {
	return Envelope{Success: true, Data: data, Pagination: &pagination}
}
