package pinecone

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
	"google.golang.org/protobuf/types/known/structpb"
)

// [IndexMetric] is the [similarity metric] used by similarity search against a Pinecone index.
//
// [similarity metric]: https://docs.pinecone.io/guides/indexes/understanding-indexes#similarity-metrics
type IndexMetric string

const (
	Cosine     IndexMetric = "cosine"     // Default distance metric, ideal for textual data
	Dotproduct IndexMetric = "dotproduct" // Ideal for hybrid search
	Euclidean  IndexMetric = "euclidean"  // Ideal for distance-based data (e.g. lat/long points)
)

// [IndexStatusState] is the state of a Pinecone index.
type IndexStatusState string

const (
	InitializationFailed IndexStatusState = "InitializationFailed"
	Initializing         IndexStatusState = "Initializing"
	Ready                IndexStatusState = "Ready"
	ScalingDown          IndexStatusState = "ScalingDown"
	ScalingDownPodSize   IndexStatusState = "ScalingDownPodSize"
	ScalingUp            IndexStatusState = "ScalingUp"
	ScalingUpPodSize     IndexStatusState = "ScalingUpPodSize"
	Terminating          IndexStatusState = "Terminating"
)

// [Credentials] holds the API key and environment (region) string for a
// session. The environment selects the regional endpoint only; the API key
// is what authenticates every request.
type Credentials struct {
	APIKey      string
	Environment string
}

// [ClientInfo] is the caller-identifying metadata the control plane reports
// for an API key. ProjectName is part of every index's data-plane URL.
type ClientInfo struct {
	ProjectName string `json:"project_name"`
	UserLabel   string `json:"user_label"`
	UserName    string `json:"user_name"`
}

// [Metadata] is optional, additional information that can be attached to, or
// updated for, a vector.
type Metadata = structpb.Struct

// [MetadataFilter] represents the metadata filters attached to query requests.
type MetadataFilter = structpb.Struct

// [Vector] is a dense vector object with an optional sparse component and
// optional metadata.
type Vector struct {
	Id           string        `json:"id"`
	Values       []float32     `json:"values"`
	SparseValues *SparseValues `json:"sparseValues,omitempty"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
}

// [SparseValues] is the sparse component of a vector, most commonly used for
// hybrid search.
type SparseValues struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// [ScoredVector] is a vector match with a similarity score calculated
// according to the distance metric of the index.
type ScoredVector struct {
	Id           string        `json:"id"`
	Score        float32       `json:"score"`
	Values       []float32     `json:"values,omitempty"`
	SparseValues *SparseValues `json:"sparseValues,omitempty"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
}

// [Database] is the configuration half of an [IndexDescription].
type Database struct {
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Metric    IndexMetric `json:"metric"`
	Pods      int         `json:"pods"`
	Replicas  int         `json:"replicas"`
	Shards    int         `json:"shards"`
	PodType   string      `json:"pod_type"`
}

// [IndexStatus] is the runtime half of an [IndexDescription].
type IndexStatus struct {
	Host  string           `json:"host"`
	Port  int              `json:"port"`
	State IndexStatusState `json:"state"`
	Ready bool             `json:"ready"`
}

// [IndexDescription] is the full description of an index as reported by the
// control plane: its configuration and its current status.
type IndexDescription struct {
	Database Database    `json:"database"`
	Status   IndexStatus `json:"status"`
}

// [NamespaceSummary] is a summary of stats for a single namespace.
type NamespaceSummary struct {
	VectorCount uint32 `json:"vectorCount"`
}

// [IndexStats] holds the statistics of an index: per-namespace vector
// counts, the index dimension, and its fullness.
type IndexStats struct {
	Namespaces       map[string]NamespaceSummary `json:"namespaces"`
	Dimension        int                         `json:"dimension"`
	IndexFullness    float32                     `json:"indexFullness"`
	TotalVectorCount uint32                      `json:"totalVectorCount"`
}

// [UpsertResponse] reports how many vectors an upsert wrote.
type UpsertResponse struct {
	UpsertedCount uint32 `json:"upsertedCount"`
}

// [FetchRequest] identifies the vectors to look up by id, optionally scoped
// to a namespace. Ids are passed through as given; the service keys its
// response by unique id.
type FetchRequest struct {
	Ids       []string
	Namespace string
}

// url renders the request as the fetch endpoint URL on the given index base
// URL, with ids and namespace encoded as query parameters.
func (r *FetchRequest) url(baseURL string) (string, error) {
	queryValues := url.Values{}

	idsFrag, err := runtime.StyleParamWithLocation("form", true, "ids", runtime.ParamLocationQuery, r.Ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode ids: %w", err)
	}
	parsed, err := url.ParseQuery(idsFrag)
	if err != nil {
		return "", fmt.Errorf("failed to encode ids: %w", err)
	}
	for k, values := range parsed {
		for _, v := range values {
			queryValues.Add(k, v)
		}
	}

	if r.Namespace != "" {
		queryValues.Set("namespace", r.Namespace)
	}

	return baseURL + "/vectors/fetch?" + queryValues.Encode(), nil
}

// [FetchResponse] holds the fetched vectors keyed by id. Ids that were not
// found are simply absent.
type FetchResponse struct {
	Vectors   map[string]*Vector `json:"vectors"`
	Namespace string             `json:"namespace"`
}

// [QueryRequest] searches a namespace with a query vector (or the vector of
// an existing record, via Id). Exactly one of Vector and Id should be set;
// the service rejects requests carrying both.
type QueryRequest struct {
	Namespace       string          `json:"namespace,omitempty"`
	TopK            int             `json:"topK"`
	Filter          *MetadataFilter `json:"filter,omitempty"`
	IncludeValues   bool            `json:"includeValues,omitempty"`
	IncludeMetadata bool            `json:"includeMetadata,omitempty"`
	Vector          []float32       `json:"vector,omitempty"`
	SparseVector    *SparseValues   `json:"sparseVector,omitempty"`
	Id              string          `json:"id,omitempty"`
}

// [QueryResponse] holds the ids of the most similar records along with their
// similarity scores, and values/metadata where requested.
type QueryResponse struct {
	Matches   []*ScoredVector `json:"matches"`
	Namespace string          `json:"namespace"`
}

// [UpdateRequest] updates a vector in place: its values, sparse values,
// and/or individual metadata fields via SetMetadata.
type UpdateRequest struct {
	Id           string        `json:"id"`
	Values       []float32     `json:"values,omitempty"`
	SparseValues *SparseValues `json:"sparseValues,omitempty"`
	SetMetadata  *Metadata     `json:"setMetadata,omitempty"`
	Namespace    string        `json:"namespace,omitempty"`
}

// [CreateIndexRequest] holds the parameters for creating a new index.
// Dimension and Name are required; the rest default service-side.
type CreateIndexRequest struct {
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Metric    IndexMetric `json:"metric,omitempty"`
	Pods      int         `json:"pods,omitempty"`
	Replicas  int         `json:"replicas,omitempty"`
	PodType   string      `json:"pod_type,omitempty"`
}
