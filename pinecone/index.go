package pinecone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

// IndexClient is a handle to one named remote index. Create one with
// [Client.Index]; every operation is a single independent request/response
// exchange against either the control plane or the index's own data-plane
// host.
//
// The handle is stateless apart from the one-way deleted flag DeleteIndex
// sets: name, credentials, and project metadata are fixed at construction,
// so an IndexClient is safe for concurrent use.
//
// Example:
//
//	idx := pc.Index("my-index")
//
//	stats, err := idx.DescribeStats(ctx)
//	if err != nil {
//	    log.Fatalf("Failed to describe index stats: %v", err)
//	}
//	fmt.Printf("Index holds %d vectors\n", stats.TotalVectorCount)
type IndexClient struct {
	name           string
	creds          Credentials
	info           ClientInfo
	controllerHost string
	rest           *restClient
	deleted        atomic.Bool
}

type upsertRequest struct {
	Namespace string    `json:"namespace"`
	Vectors   []*Vector `json:"vectors"`
}

type configureIndexRequest struct {
	Replicas int    `json:"replicas"`
	PodType  string `json:"pod_type"`
}

// URL returns the index's data-plane base URL,
// https://{name}-{project}.svc.{environment}.pinecone.io, with no trailing
// slash. It is a pure function of the handle's fields, recomputed on every
// call and never memoized.
func (idx *IndexClient) URL() string {
	return fmt.Sprintf("https://%s-%s.svc.%s.pinecone.io", idx.name, idx.info.ProjectName, idx.creds.Environment)
}

// Name returns the name of the index this handle points at.
func (idx *IndexClient) Name() string {
	return idx.name
}

// Describe retrieves the index's configuration and current status from the
// control plane. A successful return also doubles as a validation that the
// index exists and the credentials can reach it.
func (idx *IndexClient) Describe(ctx context.Context) (*IndexDescription, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	return doJSON[*IndexDescription](ctx, idx.rest, http.MethodGet, http.StatusOK, idx.controllerURL()+"/databases/"+idx.name, nil)
}

// DescribeStats retrieves the latest statistics of the index: per-namespace
// vector counts, dimension, and fullness.
func (idx *IndexClient) DescribeStats(ctx context.Context) (*IndexStats, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	return doJSON[*IndexStats](ctx, idx.rest, http.MethodGet, http.StatusOK, idx.URL()+"/describe_index_stats", nil)
}

// Upsert writes vectors into the given namespace, inserting new ids and
// overwriting existing ones. An empty vectors slice is not an error; the
// response simply reports zero upserted.
func (idx *IndexClient) Upsert(ctx context.Context, namespace string, vectors []*Vector) (*UpsertResponse, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	body := upsertRequest{Namespace: namespace, Vectors: vectors}
	return doJSON[*UpsertResponse](ctx, idx.rest, http.MethodPost, http.StatusOK, idx.URL()+"/vectors/upsert", &body)
}

// DeleteIndex deletes the remote index and returns the service's
// confirmation message. On success the handle is consumed: every subsequent
// call on it fails with [ErrIndexDeleted], since the index no longer
// exists. A failed delete leaves the handle usable.
func (idx *IndexClient) DeleteIndex(ctx context.Context) (string, error) {
	if idx.deleted.Load() {
		return "", ErrIndexDeleted
	}
	msg, err := doText(ctx, idx.rest, http.MethodDelete, http.StatusAccepted, idx.controllerURL()+"/databases/"+idx.name, nil)
	if err != nil {
		return "", err
	}
	idx.deleted.Store(true)
	return msg, nil
}

// Configure changes the index's replica count and/or pod type and returns
// the service's confirmation message. Whether a particular combination is
// valid for the index is the service's call: a 400 comes back as an
// *APIError for the caller to treat as it sees fit.
func (idx *IndexClient) Configure(ctx context.Context, replicas int, podType string) (string, error) {
	if idx.deleted.Load() {
		return "", ErrIndexDeleted
	}
	body := configureIndexRequest{Replicas: replicas, PodType: podType}
	return doText(ctx, idx.rest, http.MethodPatch, http.StatusAccepted, idx.controllerURL()+"/databases/"+idx.name, &body)
}

// Update updates a vector in place. The returned value is the raw response
// body; the service answers with an empty JSON object, so callers should
// ignore it.
func (idx *IndexClient) Update(ctx context.Context, in *UpdateRequest) (json.RawMessage, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	return doJSON[json.RawMessage](ctx, idx.rest, http.MethodPost, http.StatusOK, idx.URL()+"/vectors/update", in)
}

// Fetch looks up vectors by id from a single namespace. The response is
// keyed by unique id; ids that do not exist are absent from the map rather
// than an error.
func (idx *IndexClient) Fetch(ctx context.Context, in *FetchRequest) (*FetchResponse, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	fetchURL, err := in.url(idx.URL())
	if err != nil {
		return nil, err
	}
	return doJSON[*FetchResponse](ctx, idx.rest, http.MethodGet, http.StatusOK, fetchURL, nil)
}

// Query searches a namespace with a query vector and returns the ids of the
// most similar records along with their similarity scores.
func (idx *IndexClient) Query(ctx context.Context, in *QueryRequest) (*QueryResponse, error) {
	if idx.deleted.Load() {
		return nil, ErrIndexDeleted
	}
	return doJSON[*QueryResponse](ctx, idx.rest, http.MethodPost, http.StatusOK, idx.URL()+"/query", in)
}

func (idx *IndexClient) controllerURL() string {
	return controllerURL(idx.controllerHost, idx.creds.Environment)
}
