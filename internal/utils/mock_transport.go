package utils

import (
	"bytes"
	"io"
	"net/http"
)

// MockTransport is an http.RoundTripper that records every outgoing request
// and plays back canned responses. If Responses is non-empty they are served
// in FIFO order; otherwise Resp is returned for every request.
type MockTransport struct {
	Req       *http.Request
	Reqs      []*http.Request
	Resp      *http.Response
	Responses []*http.Response
	Err       error
}

func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Req = req
	m.Reqs = append(m.Reqs, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[0]
		m.Responses = m.Responses[1:]
		return resp, nil
	}
	return m.Resp, nil
}

// MockResponse builds a response with the given status code and body.
// Content-Type defaults to application/json; pass extra header pairs to
// override or extend it.
func MockResponse(statusCode int, body string, headerPairs ...string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headerPairs); i += 2 {
		header.Set(headerPairs[i], headerPairs[i+1])
	}
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     header,
	}
}

func CreateMockClient(jsonBody string) *http.Client {
	return &http.Client{
		Transport: &MockTransport{
			Resp: MockResponse(http.StatusOK, jsonBody),
		},
	}
}

func CreateMockClientWithResponses(responses ...*http.Response) *http.Client {
	return &http.Client{
		Transport: &MockTransport{
			Responses: responses,
		},
	}
}
