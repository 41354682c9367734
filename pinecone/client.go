package pinecone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/pinecone-io/go-pinecone-rest/internal/provider"
	"github.com/pinecone-io/go-pinecone-rest/internal/useragent"
)

// Client holds the parameters for connecting to the Pinecone service. It is
// the session object: it owns the credentials (API key + environment), the
// project metadata resolved at construction time, and the HTTP client every
// request goes through. Use it for control plane operations (list indexes,
// create an index) and as the factory for IndexClient handles.
//
// Note: Client methods are safe for concurrent use. All fields are fixed at
// construction and each call builds and owns its own request and response.
//
// Example:
//
//	pc, err := pinecone.NewClient(pinecone.NewClientParams{
//	    ApiKey:      "YOUR_API_KEY",
//	    Environment: "us-west1-gcp",
//	})
//	if err != nil {
//	    log.Fatalf("Failed to create Client: %v", err)
//	}
//
//	idx := pc.Index("my-index")
//	desc, err := idx.Describe(context.Background())
type Client struct {
	creds          Credentials
	info           ClientInfo
	controllerHost string
	rest           *restClient
}

// NewClientParams holds the parameters for creating a new Client.
//
// Fields:
//   - ApiKey: The API key used to authenticate every request. Falls back to
//     the PINECONE_API_KEY environment variable.
//   - Environment: The Pinecone environment (region) string, e.g.
//     "us-west1-gcp". Falls back to the PINECONE_ENV environment variable.
//     Selects the regional endpoint only; authentication is the API key.
//   - Headers: An optional map of additional HTTP headers to include in each
//     request. Overrides headers supplied through PINECONE_ADDITIONAL_HEADERS.
//   - ControllerHost: An optional override for the control plane URL,
//     normally derived from Environment. Falls back to the
//     PINECONE_CONTROLLER_HOST environment variable.
//   - RestClient: An optional HTTP client to use instead of the default.
//   - SourceTag: An optional string used to help Pinecone attribute API
//     activity.
type NewClientParams struct {
	ApiKey         string            // required unless PINECONE_API_KEY is set
	Environment    string            // required unless PINECONE_ENV is set
	Headers        map[string]string // optional
	ControllerHost string            // optional
	RestClient     *http.Client      // optional
	SourceTag      string            // optional
}

// NewClient creates and initializes a new instance of Client.
//
// Construction issues a whoami request against the control plane to resolve
// the project metadata needed for every index's data-plane URL, so a
// successful return also validates the credentials.
//
// Returns a pointer to an initialized Client on success. In case of failure
// it returns nil and an error: a missing API key or environment, or any of
// the error kinds the whoami request itself can produce.
func NewClient(in NewClientParams) (*Client, error) {
	return NewClientWithContext(context.Background(), in)
}

// NewClientWithContext is NewClient with the caller controlling the
// lifetime of the construction-time whoami request.
func NewClientWithContext(ctx context.Context, in NewClientParams) (*Client, error) {
	apiKey := valueOrFallback(in.ApiKey, os.Getenv("PINECONE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("no API key provided, please pass an API key for authorization through NewClientParams or set the PINECONE_API_KEY environment variable")
	}

	environment := valueOrFallback(in.Environment, os.Getenv("PINECONE_ENV"))
	if environment == "" {
		return nil, fmt.Errorf("no environment provided, please pass an environment through NewClientParams or set the PINECONE_ENV environment variable")
	}

	controllerHost := valueOrFallback(in.ControllerHost, os.Getenv("PINECONE_CONTROLLER_HOST"))
	if controllerHost != "" {
		var err error
		controllerHost, err = ensureURLScheme(controllerHost)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		creds:          Credentials{APIKey: apiKey, Environment: environment},
		controllerHost: controllerHost,
		rest:           newRestClient(apiKey, in.SourceTag, in.Headers, in.RestClient),
	}

	info, err := c.Whoami(ctx)
	if err != nil {
		return nil, err
	}
	c.info = *info

	return c, nil
}

// Credentials returns a copy of the session's credentials.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Info returns a copy of the project metadata resolved at construction.
func (c *Client) Info() ClientInfo {
	return c.info
}

// Whoami asks the control plane which project the session's API key belongs
// to. NewClient calls this once to populate Info; it can also be used as a
// cheap credentials check.
func (c *Client) Whoami(ctx context.Context) (*ClientInfo, error) {
	return doJSON[*ClientInfo](ctx, c.rest, http.MethodGet, http.StatusOK, c.controllerURL()+"/actions/whoami", nil)
}

// ListIndexes retrieves the names of all indexes in the project.
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	return doJSON[[]string](ctx, c.rest, http.MethodGet, http.StatusOK, c.controllerURL()+"/databases", nil)
}

// CreateIndex creates a new index and returns the service's confirmation
// message. The index is not immediately ready: poll IndexClient.Describe
// until Status.Ready before writing to it.
func (c *Client) CreateIndex(ctx context.Context, in *CreateIndexRequest) (string, error) {
	if in == nil {
		return "", fmt.Errorf("in (*CreateIndexRequest) cannot be nil")
	}
	if in.Name == "" || in.Dimension <= 0 {
		return "", fmt.Errorf("fields Name and Dimension must be included in CreateIndexRequest")
	}
	return doText(ctx, c.rest, http.MethodPost, http.StatusCreated, c.controllerURL()+"/databases", in)
}

// Index creates an IndexClient handle for the named index. The handle
// receives its own copies of the session's credentials and project
// metadata; no request is made until an operation is called.
func (c *Client) Index(name string) *IndexClient {
	return &IndexClient{
		name:           name,
		creds:          c.creds,
		info:           c.info,
		controllerHost: c.controllerHost,
		rest:           c.rest,
	}
}

func (c *Client) controllerURL() string {
	return controllerURL(c.controllerHost, c.creds.Environment)
}

func controllerURL(override string, environment string) string {
	if override != "" {
		return override
	}
	return fmt.Sprintf("https://controller.%s.pinecone.io", environment)
}

func newRestClient(apiKey string, sourceTag string, headers map[string]string, httpClient *http.Client) *restClient {
	editors := []provider.RequestEditor{
		provider.NewHeaderProvider("Api-Key", apiKey).Intercept,
		provider.NewHeaderProvider("User-Agent", useragent.BuildUserAgent(sourceTag)).Intercept,
	}

	// headers from environment, overridden by headers from parameters
	additionalHeaders := make(map[string]string)
	if envAdditionalHeaders, ok := os.LookupEnv("PINECONE_ADDITIONAL_HEADERS"); ok {
		if err := json.Unmarshal([]byte(envAdditionalHeaders), &additionalHeaders); err != nil {
			log.Printf("failed to parse PINECONE_ADDITIONAL_HEADERS: %v", err)
		}
	}
	for key, value := range headers {
		additionalHeaders[key] = value
	}
	for key, value := range additionalHeaders {
		editors = append(editors, provider.NewHeaderProvider(key, value).Intercept)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &restClient{http: httpClient, editors: editors}
}

func ensureURLScheme(inputURL string) (string, error) {
	parsedURL, err := url.Parse(inputURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}

	if parsedURL.Scheme == "" {
		return "https://" + inputURL, nil
	}
	return inputURL, nil
}

func valueOrFallback[T comparable](value, fallback T) T {
	var zero T
	if value != zero {
		return value
	} else {
		return fallback
	}
}
