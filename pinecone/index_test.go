package pinecone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/go-pinecone-rest/internal/utils"
)

func newMockIndexClient(t *testing.T, responses ...*http.Response) (*IndexClient, *utils.MockTransport) {
	t.Helper()

	client, mockTransport := newMockClient(t, responses...)
	return client.Index("test-index"), mockTransport
}

func TestIndexURLUnit(t *testing.T) {
	tests := []struct {
		name        string
		index       string
		project     string
		environment string
		want        string
	}{
		{
			name:        "Basic",
			index:       "test-index",
			project:     "test-project",
			environment: "us-west1-gcp",
			want:        "https://test-index-test-project.svc.us-west1-gcp.pinecone.io",
		}, {
			name:        "Hyphenated index name",
			index:       "my-long-index-name",
			project:     "proj42",
			environment: "eu-west1-aws",
			want:        "https://my-long-index-name-proj42.svc.eu-west1-aws.pinecone.io",
		}, {
			name:        "Short names",
			index:       "a",
			project:     "b",
			environment: "c",
			want:        "https://a-b.svc.c.pinecone.io",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			whoami := fmt.Sprintf(`{"project_name":%q}`, tt.project)
			httpClient := utils.CreateMockClient(whoami)
			client, err := NewClient(NewClientParams{ApiKey: "test-api-key", Environment: tt.environment, RestClient: httpClient})
			require.NoError(t, err)

			idx := client.Index(tt.index)
			assert.Equal(t, tt.want, idx.URL(), "Expected URL to be '%s', but got '%s'", tt.want, idx.URL())
		})
	}
}

func TestDescribeUnit(t *testing.T) {
	describeBody := `{
		"database": {"name":"test-index","dimension":32,"metric":"cosine","pods":1,"replicas":1,"shards":1,"pod_type":"p1.x1"},
		"status": {"host":"test-index-test-project.svc.test-env.pinecone.io","port":433,"state":"Ready","ready":true}
	}`
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, describeBody))

	desc, err := idx.Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-index", desc.Database.Name)
	assert.Equal(t, 32, desc.Database.Dimension)
	assert.Equal(t, Cosine, desc.Database.Metric)
	assert.Equal(t, Ready, desc.Status.State)
	assert.True(t, desc.Status.Ready)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://controller.test-env.pinecone.io/databases/test-index", req.URL.String())
}

func TestDescribeNonExistentIndexUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t, utils.MockResponse(http.StatusNotFound, "index test-index not found", "Content-Type", "text/plain"))

	_, err := idx.Describe(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "Expected error to be of type *APIError")
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "text/plain", apiErr.Type)
	assert.Equal(t, "index test-index not found", apiErr.Message)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr), "Expected error to not be a *TransportError")
}

func TestDescribeNullBodyUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t, utils.MockResponse(http.StatusOK, `null`))

	desc, err := idx.Describe(context.Background())
	require.Nil(t, desc)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr, "Expected a null response body to surface as *DecodeError")
}

func TestDescribeStatsUnit(t *testing.T) {
	statsBody := `{
		"namespaces": {"": {"vectorCount": 50}, "test-namespace": {"vectorCount": 10}},
		"dimension": 32,
		"indexFullness": 0.4,
		"totalVectorCount": 60
	}`
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, statsBody))

	stats, err := idx.DescribeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(60), stats.TotalVectorCount)
	assert.Equal(t, uint32(10), stats.Namespaces["test-namespace"].VectorCount)
	assert.Equal(t, 32, stats.Dimension)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, idx.URL()+"/describe_index_stats", req.URL.String())
}

func TestUpsertUnit(t *testing.T) {
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, `{"upsertedCount": 2}`))

	vectors := []*Vector{
		{Id: "vec-1", Values: []float32{0.1, 0.2}},
		{Id: "vec-2", Values: []float32{0.3, 0.4}},
	}
	res, err := idx.Upsert(context.Background(), "test-namespace", vectors)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), res.UpsertedCount)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, idx.URL()+"/vectors/upsert", req.URL.String())

	reqBody, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(reqBody), `"namespace":"test-namespace"`)
	assert.Contains(t, string(reqBody), `"id":"vec-1"`)
}

func TestUpsertEmptyVectorsUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t, utils.MockResponse(http.StatusOK, `{"upsertedCount": 0}`))

	res, err := idx.Upsert(context.Background(), "test-namespace", []*Vector{})
	require.NoError(t, err, "Expected upsert of an empty vector slice to succeed")
	assert.Equal(t, uint32(0), res.UpsertedCount, "Expected zero upserted count for empty input")
}

func TestFetchUnit(t *testing.T) {
	fetchBody := `{
		"vectors": {
			"vec-1": {"id":"vec-1","values":[0.1,0.2]},
			"vec-2": {"id":"vec-2","values":[0.3,0.4]}
		},
		"namespace": "test-namespace"
	}`
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, fetchBody))

	res, err := idx.Fetch(context.Background(), &FetchRequest{Ids: []string{"vec-1", "vec-2"}, Namespace: "test-namespace"})
	require.NoError(t, err)
	assert.Len(t, res.Vectors, 2)
	assert.Equal(t, "vec-1", res.Vectors["vec-1"].Id)
	assert.Equal(t, "test-namespace", res.Namespace)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, idx.URL()+"/vectors/fetch?ids=vec-1&ids=vec-2&namespace=test-namespace", req.URL.String())
}

func TestFetchDuplicateIdsUnit(t *testing.T) {
	// The service answers keyed by unique id; duplicate ids in the request
	// collapse to one entry in the response map.
	fetchBody := `{
		"vectors": {"vec-1": {"id":"vec-1","values":[0.1,0.2]}},
		"namespace": ""
	}`
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, fetchBody))

	res, err := idx.Fetch(context.Background(), &FetchRequest{Ids: []string{"vec-1", "vec-1"}})
	require.NoError(t, err)
	assert.Len(t, res.Vectors, 1, "Expected response to be keyed by unique ids only")
	assert.Equal(t, "vec-1", res.Vectors["vec-1"].Id)

	req := mockTransport.Reqs[1]
	assert.Equal(t, idx.URL()+"/vectors/fetch?ids=vec-1&ids=vec-1", req.URL.String(), "Expected ids to be passed through as given")
}

func TestQueryUnit(t *testing.T) {
	queryBody := `{
		"matches": [
			{"id":"vec-1","score":0.98,"values":[0.1,0.2]},
			{"id":"vec-2","score":0.76}
		],
		"namespace": "test-namespace"
	}`
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, queryBody))

	res, err := idx.Query(context.Background(), &QueryRequest{
		Namespace:     "test-namespace",
		TopK:          2,
		Vector:        []float32{0.1, 0.2},
		IncludeValues: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "vec-1", res.Matches[0].Id)
	assert.InDelta(t, 0.98, res.Matches[0].Score, 1e-6)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, idx.URL()+"/query", req.URL.String())

	reqBody, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(reqBody), `"topK":2`)
	assert.Contains(t, string(reqBody), `"includeValues":true`)
}

func TestUpdateUnit(t *testing.T) {
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusOK, `{}`))

	raw, err := idx.Update(context.Background(), &UpdateRequest{Id: "vec-1", Values: []float32{0.5, 0.5}})
	require.NoError(t, err)
	// The service returns an empty JSON object; the content is to be ignored.
	assert.JSONEq(t, `{}`, string(raw))

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, idx.URL()+"/vectors/update", req.URL.String())
}

func TestConfigureUnit(t *testing.T) {
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusAccepted, "accepted", "Content-Type", "text/plain"))

	msg, err := idx.Configure(context.Background(), 2, "s1.x1")
	require.NoError(t, err)
	assert.Equal(t, "accepted", msg)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "https://controller.test-env.pinecone.io/databases/test-index", req.URL.String())

	reqBody, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"replicas":2,"pod_type":"s1.x1"}`, string(reqBody))
}

func TestConfigureBadRequestUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t, utils.MockResponse(http.StatusBadRequest, `{"code":3,"message":"Cannot change the pod type"}`))

	_, err := idx.Configure(context.Background(), 1, "p2.x1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "Expected error to be of type *APIError")
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "application/json", apiErr.Type)
	assert.Contains(t, apiErr.Message, "Cannot change the pod type")
}

func TestDeleteIndexUnit(t *testing.T) {
	idx, mockTransport := newMockIndexClient(t, utils.MockResponse(http.StatusAccepted, "accepted", "Content-Type", "text/plain"))

	msg, err := idx.DeleteIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "accepted", msg)

	req := mockTransport.Reqs[1]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "https://controller.test-env.pinecone.io/databases/test-index", req.URL.String())

	// the handle is consumed; every operation now fails fast
	_, err = idx.Describe(context.Background())
	require.ErrorIs(t, err, ErrIndexDeleted)
	_, err = idx.Upsert(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrIndexDeleted)
	_, err = idx.Query(context.Background(), &QueryRequest{TopK: 1})
	require.ErrorIs(t, err, ErrIndexDeleted)
	_, err = idx.DeleteIndex(context.Background())
	require.ErrorIs(t, err, ErrIndexDeleted)

	assert.Len(t, mockTransport.Reqs, 2, "Expected no requests after the handle was consumed")
}

func TestDeleteIndexNotFoundUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t,
		utils.MockResponse(http.StatusNotFound, "index test-index not found", "Content-Type", "text/plain"),
		utils.MockResponse(http.StatusOK, `{"database":{"name":"test-index"},"status":{"ready":true}}`),
	)

	_, err := idx.DeleteIndex(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "Expected error to be of type *APIError")
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	// a failed delete does not consume the handle
	_, err = idx.Describe(context.Background())
	require.NoError(t, err)
}

func TestTransportErrorUnit(t *testing.T) {
	idx, mockTransport := newMockIndexClient(t)
	mockTransport.Err = errors.New("connection refused")

	_, err := idx.Describe(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr, "Expected error to be of type *TransportError")
}

func TestDecodeErrorUnit(t *testing.T) {
	idx, _ := newMockIndexClient(t, utils.MockResponse(http.StatusOK, "this is not json"))

	_, err := idx.DescribeStats(context.Background())
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr, "Expected error to be of type *DecodeError")
}
