package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/registry"
)

func TestClusterContent_KCentroid_PartitionsAllEntries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	texts := map[string]string{
		"a1": "alpha one", "a2": "alpha two",
		"b1": "beta one", "b2": "beta two",
	}
	for id, text := range texts {
		_, err := svc.EmbedContent(ctx, content.TypeTask, id, text, "", nil)
		require.NoError(t, err)
	}

	clusters, err := svc.ClusterContent(registry.Filter{}, ClusterParams{Method: ClusterKCentroid, K: 2})
	require.NoError(t, err)

	var total int
	for _, c := range clusters {
		total += len(c.Members)
	}
	assert.Equal(t, 4, total, "every entry must land in exactly one cluster")
}

func TestClusterContent_RejectsMissingK(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ClusterContent(registry.Filter{}, ClusterParams{Method: ClusterKCentroid})
	assert.Error(t, err)
}

func TestHierarchicalClustering_RootCoversEveryMember(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"x", "y", "z"} {
		_, err := svc.EmbedContent(ctx, content.TypeTask, id, id+" text", "", nil)
		require.NoError(t, err)
	}

	tree, err := svc.HierarchicalClustering(registry.Filter{}, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, tree.Cluster.Members)
}
