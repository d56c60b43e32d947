package knowledge

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/kofalt/go-memoize"
	"github.com/todozi/todozi/pkg/concurrent"
	"github.com/todozi/todozi/pkg/config"
	"github.com/todozi/todozi/pkg/embedcache"
	"github.com/todozi/todozi/pkg/embedlog"
	"github.com/todozi/todozi/pkg/embedmodel"
	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/registry"
)

// Service is the embedding service: the single orchestrator every other
// subsystem (search, clustering, drift, validation) consumes. All state —
// cache, registry, log handle, model registry — is owned exclusively by
// the Service; external callers hold it by shared reference.
type Service struct {
	mu  sync.Mutex
	cfg config.Config

	dataDir string

	models  map[string]*embedmodel.Embedder
	current string

	cache    *embedcache.Cache
	log      *embedlog.Log
	drift    *driftLog
	versions *versionStore
	reg      *registry.Registry

	// memo deduplicates repeat ExplainSearchResult/PairwiseCosine calls
	// for the same (query, id) or (alias pair, vectors) within a short window,
	// since both recompute from already-cached vectors and are cheap to
	// coalesce when a caller re-asks the same question in a batch pass.
	memo *memoize.Memoizer

	// observers holds every Subscribe callback. A pkg/concurrent.Slice
	// instead of a plain mutex-guarded slice since Subscribe (append) and
	// notify (snapshot-and-iterate) run concurrently from arbitrary
	// embed_content/track_embedding_drift callers.
	observers *concurrent.Slice[func(DriftSnapshot)]

	watchCancel context.CancelFunc

	initialized bool
}

// New constructs a Service. Initialize must be called before use.
func New(cfg config.Config, dataDir string) *Service {
	return &Service{
		cfg:       cfg,
		dataDir:   dataDir,
		models:    make(map[string]*embedmodel.Embedder),
		observers: concurrent.NewSlice[func(DriftSnapshot)](),
	}
}

// Initialize loads the default model, opens or creates the embedding and
// drift logs, and warms an empty cache. Idempotent: a second call is a
// no-op.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	provider, err := embedmodel.Load(ctx, s.cfg.Embedding.ModelName, embedmodel.LoadOptions{
		CacheDir:   filepath.Join(s.dataDir, "models"),
		Dimensions: s.cfg.Embedding.Dimensions,
	})
	if err != nil {
		return errs.ModelWrap(err, "loading default model %q", s.cfg.Embedding.ModelName)
	}
	s.models[s.cfg.Embedding.ModelName] = embedmodel.NewEmbedder(provider)
	s.current = s.cfg.Embedding.ModelName

	embedLog, err := embedlog.Open(filepath.Join(s.dataDir, "embed", "log.jsonl"), embedlog.WithDailyRotation())
	if err != nil {
		return err
	}
	s.log = embedLog

	driftLog, err := openDriftLog(filepath.Join(s.dataDir, "embed", "drift.jsonl"))
	if err != nil {
		return err
	}
	s.drift = driftLog

	versions, err := newVersionStore(filepath.Join(s.dataDir, "embed", "versions"))
	if err != nil {
		return err
	}
	s.versions = versions

	ttl := time.Duration(s.cfg.Embedding.CacheTTLSeconds) * time.Second
	s.cache = embedcache.New(s.cfg.Embedding.CacheMaxEntries, ttl)
	s.reg = registry.New()
	s.memo = memoize.NewMemoizer(10*time.Second, time.Minute)

	watchCtx, cancel := context.WithCancel(context.Background())
	modelsDir := filepath.Join(s.dataDir, "models")
	if err := embedmodel.WatchManifests(watchCtx, modelsDir, s.reloadModel); err != nil {
		cancel()
		return err
	}
	s.watchCancel = cancel

	s.initialized = true
	return nil
}

// reloadModel re-resolves model from its on-disk manifest and swaps it into
// every alias currently bound to that model id, e.g. after another process
// rewrites the manifest to point a remote alias at a new endpoint. Aliases
// bound to a different model are left untouched; set_model still decides
// which alias is current.
func (s *Service) reloadModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []string
	for alias, e := range s.models {
		if e.ID() == model {
			stale = append(stale, alias)
		}
	}
	if len(stale) == 0 {
		return
	}

	provider, err := embedmodel.Load(context.Background(), model, embedmodel.LoadOptions{
		CacheDir:   filepath.Join(s.dataDir, "models"),
		Dimensions: s.cfg.Embedding.Dimensions,
	})
	if err != nil {
		slog.Warn("knowledge: failed to reload model after manifest change", "model", model, "error", err)
		return
	}
	for _, alias := range stale {
		s.models[alias] = embedmodel.NewEmbedder(provider)
	}
}

// Close releases the log handles and stops the model-manifest watcher. It
// does not clear in-memory state.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watchCancel != nil {
		s.watchCancel()
	}

	if s.log != nil {
		if err := s.log.Close(); err != nil {
			return err
		}
	}
	if s.drift != nil {
		return s.drift.close()
	}
	return nil
}

func (s *Service) currentEmbedder() (*embedmodel.Embedder, error) {
	e, ok := s.models[s.current]
	if !ok {
		return nil, errs.Model("no model loaded: call Initialize first")
	}
	return e, nil
}

// Registry exposes the underlying content registry for callers that need to
// seed entries outside the generate/embed operations (e.g. test harnesses,
// or a caller restoring from its own content store).
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// UsageStats aggregates token/call accounting across every loaded model.
func (s *Service) UsageStats() map[string]embedmodel.UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]embedmodel.UsageStats, len(s.models))
	for alias, e := range s.models {
		out[alias] = e.Usage()
	}
	return out
}

// Subscribe registers fn to be called, without blocking the caller, whenever
// a drift snapshot is emitted.
func (s *Service) Subscribe(fn func(DriftSnapshot)) {
	s.observers.Append(fn)
}

func (s *Service) notify(snap DriftSnapshot) {
	for _, fn := range s.observers.All() {
		go fn(snap)
	}
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.Cancelled(ctx.Err())
	default:
		return nil
	}
}
