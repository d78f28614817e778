package ports

import "net/http"

// HTTPClient abstracts the HTTP transport so gateway adapters can be tested
// without a live terminal
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
