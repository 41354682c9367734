package provider

import (
	"context"
	"net/http"
)

// RequestEditor mutates an outgoing request before it is sent. Editors run
// in registration order, so a later editor wins when two target the same
// header.
type RequestEditor func(ctx context.Context, req *http.Request) error

type CustomHeader struct {
	name  string
	value string
}

func NewHeaderProvider(name string, value string) *CustomHeader {
	return &CustomHeader{name: name, value: value}
}

func (h *CustomHeader) Intercept(ctx context.Context, req *http.Request) error {
	req.Header.Set(h.name, h.value)
	return nil
}
