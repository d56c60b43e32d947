package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todozi/todozi/pkg/config"
	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/registry"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Embedding.ModelName = "local/test"
	cfg.Embedding.Dimensions = 32
	cfg.Embedding.CacheMaxEntries = 100
	cfg.Embedding.CacheTTLSeconds = 3600

	svc := New(cfg, t.TempDir())
	require.NoError(t, svc.Initialize(context.Background()))
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestReloadModel_SwapsEveryAliasBoundToThatModelID(t *testing.T) {
	svc := newTestService(t)

	svc.mu.Lock()
	before := svc.models["local/test"]
	svc.mu.Unlock()

	svc.reloadModel("local/test")

	svc.mu.Lock()
	after := svc.models["local/test"]
	svc.mu.Unlock()

	assert.NotSame(t, before, after, "reloadModel should install a freshly loaded embedder")
	assert.Equal(t, "local/test", after.ID())
}

func TestReloadModel_IgnoresUnboundModelID(t *testing.T) {
	svc := newTestService(t)
	svc.reloadModel("local/some-other-model")

	svc.mu.Lock()
	_, ok := svc.models["local/some-other-model"]
	svc.mu.Unlock()
	assert.False(t, ok)
}

func TestInitialize_Idempotent(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Initialize(context.Background()))
}

func TestGenerateEmbedding_IsUnitNormAndCached(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v1, err := svc.GenerateEmbedding(ctx, "hello world")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, norm(v1), 1e-3)

	v2, err := svc.GenerateEmbedding(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, v1, v2, "same text within TTL must return the byte-identical cached vector")
}

func TestEmbedContent_UpdatesRegistryAndTracksDrift(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var captured []DriftSnapshot
	svc.Subscribe(func(d DriftSnapshot) { captured = append(captured, d) })

	_, err := svc.EmbedContent(ctx, content.TypeTask, "t1", "build a login page", "auth", nil)
	require.NoError(t, err)

	_, err = svc.EmbedContent(ctx, content.TypeTask, "t1", "construct a sign-in screen", "auth", nil)
	require.NoError(t, err)

	entry, ok := svc.Registry().Get("t1")
	require.True(t, ok)
	assert.Equal(t, "construct a sign-in screen", entry.Text)

	history, err := svc.GetVersionHistory("t1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(history), 2, "two distinct embed_content calls must leave at least two version entries")
}

func TestEmbedContent_SameTextTwice_NoDrift(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.EmbedContent(ctx, content.TypeTask, "t1", "same text", "", nil)
	require.NoError(t, err)
	_, err = svc.EmbedContent(ctx, content.TypeTask, "t1", "same text", "", nil)
	require.NoError(t, err)

	history, err := svc.GetVersionHistory("t1")
	require.NoError(t, err)
	assert.Len(t, history, 1, "re-embedding identical text must not add a second version entry")
}

func TestCosineSearch_SelfIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.EmbedContent(ctx, content.TypeTask, "t1", "Implement OAuth2 login flow", "auth", nil)
	require.NoError(t, err)

	results, err := svc.CosineSearch(ctx, "Implement OAuth2 login flow", registry.Filter{}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t1", results[0].ID)
	assert.GreaterOrEqual(t, results[0].Score, 0.999)
}

func TestCosineSearch_EmptyRegistryReturnsEmptyNotError(t *testing.T) {
	svc := newTestService(t)
	results, err := svc.CosineSearch(context.Background(), "anything", registry.Filter{}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHybridSearch_KeywordBoost(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.EmbedContent(ctx, content.TypeTask, "B", "Optimize database query performance", "", []string{"db", "perf"})
	require.NoError(t, err)
	_, err = svc.EmbedContent(ctx, content.TypeTask, "C", "Write unit tests for query planner", "", []string{"test", "perf"})
	require.NoError(t, err)

	results, err := svc.HybridSearch(ctx, "performance work", []string{"db"}, 0.5, 2, registry.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].ID)
	assert.Equal(t, 1.0, results[0].Keyword)
}

func TestFindSimilar_ExcludesSelf(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.EmbedContent(ctx, content.TypeTask, "a", "alpha text", "", nil)
	require.NoError(t, err)
	_, err = svc.EmbedContent(ctx, content.TypeTask, "b", "beta text", "", nil)
	require.NoError(t, err)

	results, err := svc.FindSimilar("a", 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "a", r.ID)
	}
}

func TestRecommendSimilar_RequiresAtLeastOneBasis(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RecommendSimilar(nil, nil, 5)
	assert.Error(t, err)
}

func TestValidateEmbeddings_FlagsNaNComponent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.EmbedContent(ctx, content.TypeTask, "good", "a fine task", "", nil)
	require.NoError(t, err)

	bad := svc.Registry()
	entry, _ := bad.Get("good")
	entry.ID = "broken"
	entry.Vector = append([]float64(nil), entry.Vector...)
	entry.Vector[0] = nan()
	bad.Put(entry)

	report := svc.ValidateEmbeddings()
	var found bool
	for _, a := range report.Anomalies {
		if a.ContentID == "broken" {
			found = true
			assert.Equal(t, "NaN component", a.Reason)
		}
	}
	assert.True(t, found)
}

func TestClusterContent_ThresholdGroupsIdenticalText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.EmbedContent(ctx, content.TypeTask, "a", "identical phrase", "", nil)
	require.NoError(t, err)
	_, err = svc.EmbedContent(ctx, content.TypeTask, "b", "identical phrase", "", nil)
	require.NoError(t, err)

	clusters, err := svc.ClusterContent(registry.Filter{}, ClusterParams{Method: ClusterThreshold, Threshold: 0.99})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, clusters[0].Members)
}

func TestBuildSimilarityGraph_EdgeAboveThreshold(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.EmbedContent(ctx, content.TypeTask, "a", "same phrase", "", nil)
	require.NoError(t, err)
	_, err = svc.EmbedContent(ctx, content.TypeTask, "b", "same phrase", "", nil)
	require.NoError(t, err)

	graph := svc.BuildSimilarityGraph(registry.Filter{}, 0.99)
	require.Len(t, graph.Edges, 1)
}

func TestExportForFineTuning_WritesOneLinePerEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.EmbedContent(ctx, content.TypeTask, "a", "export me", "proj", []string{"x"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.jsonl")
	require.NoError(t, svc.ExportForFineTuning(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func nan() float64 {
	var zero float64
	return zero / zero
}
