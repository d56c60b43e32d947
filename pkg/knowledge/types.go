// Package knowledge is the embedding service: the single orchestrator that
// search, clustering, drift tracking and validation are built on top of. It
// owns the model registry, cache, embedding log and content registry, and
// every other subsystem consumes it by shared reference.
package knowledge

import "time"

// SearchResult is one cosine_search hit.
type SearchResult struct {
	ID      string
	Score   float64
	Snippet string
}

// HybridResult is one hybrid_search hit, carrying both component scores so
// callers can see why an item ranked where it did.
type HybridResult struct {
	ID      string
	Score   float64
	Semantic float64
	Keyword  float64
}

// TagCount is one entry in a cluster's top-tag summary.
type TagCount struct {
	Tag   string
	Count int
}

// Cluster is one group produced by flat or hierarchical clustering.
type Cluster struct {
	ID             string
	Members        []string
	MeanSimilarity float64
	TopTags        []TagCount
}

// ClusterMethod selects the flat-clustering algorithm.
type ClusterMethod string

const (
	// ClusterThreshold is agglomerative single-link clustering by a
	// similarity threshold.
	ClusterThreshold ClusterMethod = "threshold"
	// ClusterKCentroid is k-centroid clustering with a fixed k.
	ClusterKCentroid ClusterMethod = "k_centroid"
)

// ClusterParams configures cluster_content.
type ClusterParams struct {
	Method    ClusterMethod
	Threshold float64 // used by ClusterThreshold
	K         int     // used by ClusterKCentroid
	TopTagsN  int     // top-K tags to summarize per cluster; 0 defaults to 5
}

// TreeNode is one node of a hierarchical_clustering tree.
type TreeNode struct {
	Cluster  Cluster
	Children []*TreeNode
}

// GraphEdge is one undirected similarity-graph edge.
type GraphEdge struct {
	A, B   string
	Weight float64
}

// SimilarityGraph is the output of build_similarity_graph.
type SimilarityGraph struct {
	Nodes []string
	Edges []GraphEdge
}

// DimContribution is one dimension's signed contribution to a search score.
type DimContribution struct {
	Index        int
	Contribution float64
}

// Explanation is the output of explain_search_result.
type Explanation struct {
	TopDimensions  []DimContribution
	KeywordOverlap []string
}

// DriftSnapshot records one re-embedding event worth noting: either an
// automatic drift (Label empty) or an explicit version (Label set).
type DriftSnapshot struct {
	ContentID  string    `json:"content_id"`
	Timestamp  time.Time `json:"timestamp"`
	Drift      float64   `json:"drift"`
	OldModelID string    `json:"old_model_id,omitempty"`
	NewModelID string    `json:"new_model_id,omitempty"`
	Label      string    `json:"label,omitempty"`
	Vector     []float64 `json:"vector,omitempty"`
}

// Anomaly is one finding from validate_embeddings.
type Anomaly struct {
	ContentID string
	Reason    string
}

// ValidationReport is the output of validate_embeddings.
type ValidationReport struct {
	Anomalies []Anomaly
}

// ModelComparison is one alias's result within compare_models.
type ModelComparison struct {
	Alias         string
	Vector        []float64
	InferenceTime time.Duration
}
