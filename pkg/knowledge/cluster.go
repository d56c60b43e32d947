package knowledge

import (
	"sort"

	"github.com/google/uuid"
	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/registry"
)

const defaultTopTags = 5

// ClusterContent dispatches to the flat-clustering algorithm named by
// params.Method.
func (s *Service) ClusterContent(filter registry.Filter, params ClusterParams) ([]Cluster, error) {
	entries := s.reg.All(filter)
	topTagsN := params.TopTagsN
	if topTagsN <= 0 {
		topTagsN = defaultTopTags
	}

	switch params.Method {
	case ClusterKCentroid:
		if params.K <= 0 {
			return nil, errs.Validation("k", "k must be positive for k-centroid clustering")
		}
		return clusterByK(entries, params.K, topTagsN), nil
	case ClusterThreshold, "":
		threshold := params.Threshold
		if threshold <= 0 {
			threshold = s.cfg.Embedding.SimilarityThreshold
		}
		return clusterByThreshold(entries, threshold, topTagsN), nil
	default:
		return nil, errs.Validation("method", "unknown cluster method %q", params.Method)
	}
}

// clusterByThreshold is agglomerative single-link clustering: two clusters
// merge as soon as any pair of their members has similarity >= threshold.
func clusterByThreshold(entries []registry.Entry, threshold float64, topTagsN int) []Cluster {
	entries = withVectors(entries)
	parent := make([]int, len(entries))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if cosine(entries[i].Vector, entries[j].Vector) >= threshold {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range entries {
		root := find(i)
		groups[root] = append(groups[root], i)
	}
	return buildClusters(entries, groups, topTagsN)
}

// clusterByK is k-centroid clustering with a fixed k: centroids are
// initialized from the first k entries and refined for a bounded number of
// iterations using cosine distance.
func clusterByK(entries []registry.Entry, k int, topTagsN int) []Cluster {
	entries = withVectors(entries)
	if len(entries) == 0 {
		return nil
	}
	if k > len(entries) {
		k = len(entries)
	}

	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), entries[i].Vector...)
	}

	assignment := make([]int, len(entries))
	const maxIterations = 25
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, e := range entries {
			best, bestScore := 0, -2.0
			for c, centroid := range centroids {
				if score := cosine(e.Vector, centroid); score > bestScore {
					best, bestScore = c, score
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i, e := range entries {
			c := assignment[i]
			if sums[c] == nil {
				sums[c] = make([]float64, len(e.Vector))
			}
			for d, v := range e.Vector {
				sums[c][d] += v
			}
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				centroids[c] = normalize(sums[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	groups := make(map[int][]int)
	for i, c := range assignment {
		groups[c] = append(groups[c], i)
	}
	return buildClusters(entries, groups, topTagsN)
}

func withVectors(entries []registry.Entry) []registry.Entry {
	out := make([]registry.Entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) > 0 {
			out = append(out, e)
		}
	}
	return out
}

func buildClusters(entries []registry.Entry, groups map[int][]int, topTagsN int) []Cluster {
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	clusters := make([]Cluster, 0, len(roots))
	for _, root := range roots {
		idxs := groups[root]
		members := make([]string, len(idxs))
		tagCounts := make(map[string]int)
		var simSum float64
		var simPairs int
		for a, ia := range idxs {
			members[a] = entries[ia].ID
			for _, tag := range entries[ia].Tags {
				tagCounts[tag]++
			}
			for _, ib := range idxs[a+1:] {
				simSum += cosine(entries[ia].Vector, entries[ib].Vector)
				simPairs++
			}
		}
		mean := 1.0
		if simPairs > 0 {
			mean = simSum / float64(simPairs)
		}

		clusters = append(clusters, Cluster{
			ID:             uuid.NewString(),
			Members:        members,
			MeanSimilarity: mean,
			TopTags:        topTags(tagCounts, topTagsN),
		})
	}
	return clusters
}

func topTags(counts map[string]int, n int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

const minLeafSize = 2

// HierarchicalClustering recursively applies flat clustering until depth
// reaches maxDepth or a cluster's size is at or below minLeafSize.
func (s *Service) HierarchicalClustering(filter registry.Filter, maxDepth int) (*TreeNode, error) {
	entries := s.reg.All(filter)
	root := Cluster{ID: "root", Members: idsOf(entries)}
	return s.buildTree(entries, root, maxDepth, 0)
}

func idsOf(entries []registry.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func (s *Service) buildTree(entries []registry.Entry, cluster Cluster, maxDepth, depth int) (*TreeNode, error) {
	node := &TreeNode{Cluster: summarize(entries, cluster)}
	if depth >= maxDepth || len(cluster.Members) <= minLeafSize {
		return node, nil
	}

	children := clusterByThreshold(entries, s.cfg.Embedding.SimilarityThreshold, defaultTopTags)

	byID := make(map[string]registry.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	for _, child := range children {
		if len(child.Members) == len(cluster.Members) {
			continue // threshold clustering didn't split this subtree further
		}
		subset := make([]registry.Entry, len(child.Members))
		for i, id := range child.Members {
			subset[i] = byID[id]
		}
		childNode, err := s.buildTree(subset, Cluster{ID: child.ID, Members: child.Members}, maxDepth, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

func summarize(entries []registry.Entry, cluster Cluster) Cluster {
	byID := make(map[string]registry.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	tagCounts := make(map[string]int)
	var simSum float64
	var simPairs int
	vectors := make([][]float64, 0, len(cluster.Members))
	for _, id := range cluster.Members {
		e := byID[id]
		for _, tag := range e.Tags {
			tagCounts[tag]++
		}
		if len(e.Vector) > 0 {
			vectors = append(vectors, e.Vector)
		}
	}
	for a := 0; a < len(vectors); a++ {
		for b := a + 1; b < len(vectors); b++ {
			simSum += cosine(vectors[a], vectors[b])
			simPairs++
		}
	}
	mean := 1.0
	if simPairs > 0 {
		mean = simSum / float64(simPairs)
	}
	return Cluster{ID: cluster.ID, Members: cluster.Members, MeanSimilarity: mean, TopTags: topTags(tagCounts, defaultTopTags)}
}

// BuildSimilarityGraph emits nodes for every filter-matching entry and an
// undirected edge for every pair whose cosine similarity is >= threshold.
func (s *Service) BuildSimilarityGraph(filter registry.Filter, threshold float64) SimilarityGraph {
	entries := withVectors(s.reg.All(filter))
	graph := SimilarityGraph{Nodes: idsOf(entries)}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			w := cosine(entries[i].Vector, entries[j].Vector)
			if w >= threshold {
				graph.Edges = append(graph.Edges, GraphEdge{A: entries[i].ID, B: entries[j].ID, Weight: w})
			}
		}
	}
	return graph
}
