package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/pinecone-io/go-pinecone-rest/internal/provider"
)

// restClient bundles the http.Client and request editors shared by a
// session and the IndexClients it creates. It carries no per-call state:
// every request is built, sent, and decoded independently.
type restClient struct {
	http    *http.Client
	editors []provider.RequestEditor
}

func (rc *restClient) newRequest(ctx context.Context, method string, url string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, edit := range rc.editors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// send performs one request/response cycle. A failure to build or deliver
// the request surfaces as *TransportError, a status other than
// expectedStatus as *APIError. The caller owns closing the returned body.
func (rc *restClient) send(ctx context.Context, method string, expectedStatus int, url string, body any) (*http.Response, error) {
	req, err := rc.newRequest(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	res, err := rc.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if res.StatusCode != expectedStatus {
		defer res.Body.Close()
		return nil, handleErrorResponseBody(res)
	}
	return res, nil
}

// doJSON issues the request and decodes the response body into T.
func doJSON[T any](ctx context.Context, rc *restClient, method string, expectedStatus int, url string, body any) (T, error) {
	var out T
	res, err := rc.send(ctx, method, expectedStatus, url, body)
	if err != nil {
		return out, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return out, &DecodeError{Err: err}
	}
	// A literal null decodes into a pointer without error, leaving it nil.
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && v.IsNil() {
		return out, &DecodeError{Err: fmt.Errorf("unexpected null response body")}
	}
	return out, nil
}

// doText issues the request and returns the response body verbatim, for the
// endpoints that answer with a plain-text message.
func doText(ctx context.Context, rc *restClient, method string, expectedStatus int, url string, body any) (string, error) {
	res, err := rc.send(ctx, method, expectedStatus, url, body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return string(resBody), nil
}

func handleErrorResponseBody(res *http.Response) error {
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	typeTag := res.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(typeTag); err == nil {
		typeTag = mediaType
	}

	message := strings.TrimSpace(string(resBody))
	if message == "" {
		message = res.Status
	}

	return &APIError{StatusCode: res.StatusCode, Type: typeTag, Message: message}
}
