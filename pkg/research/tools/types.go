package tools

import "fmt"

// WebResult is a single ranked hit returned by a search backend. Fields the
// backend omits are left empty.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// TransportError marks a network-layer failure talking to a search backend,
// as opposed to a bad response from it.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
