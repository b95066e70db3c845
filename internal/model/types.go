package model

// PullProgress is one line of the server's streamed pull response.
type PullProgress struct {
	Status    string  `json:"status"`
	Digest    string  `json:"digest,omitempty"`
	Total     int64   `json:"total,omitempty"`
	Completed int64   `json:"completed,omitempty"`
	Error     string  `json:"error,omitempty"`
	Percent   float64 `json:"-"`
}
