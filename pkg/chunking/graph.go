// Package chunking is the dependency graph over generated code chunks
// (component K): it tracks chunk status, computes the ready-set of chunks
// whose dependencies are satisfied, and validates the graph for cycles,
// unknown dependencies and token-limit violations.
package chunking

import (
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/errs"
)

// Graph holds CodeChunk nodes keyed by id plus the dependency edges
// implied by each chunk's Dependencies list.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*content.CodeChunk
	order []string
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*content.CodeChunk)}
}

// AddChunk inserts chunk, rejecting a duplicate id. A chunk whose
// estimated-tokens exceeds its level's limit is flagged at insertion:
// its status is forced to Failed regardless of the status it arrived with.
func (g *Graph) AddChunk(c *content.CodeChunk) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[c.ID]; exists {
		return errs.Validation("id", "chunk %q already exists", c.ID)
	}
	if c.ExceedsTokenLimit() {
		c.Status = content.ChunkFailed
	}
	g.nodes[c.ID] = c
	g.order = append(g.order, c.ID)
	return nil
}

// SetStatus updates the status of id, rejecting a missing id or an illegal
// state transition.
func (g *Graph) SetStatus(id string, status content.ChunkStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.nodes[id]
	if !ok {
		return errs.NotFound("id", "chunk %q not found", id)
	}
	if !c.Status.CanTransition(status) {
		return errs.Validation("status", "illegal transition %s -> %s for chunk %q", c.Status, status, id)
	}
	c.Status = status
	return nil
}

// Get returns the chunk for id.
func (g *Graph) Get(id string) (*content.CodeChunk, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.nodes[id]
	return c, ok
}

// ReadySet returns every chunk id that is Pending and whose dependencies
// are all Completed or Validated. A missing dependency makes a chunk not
// ready, but is not itself an error — validate() reports it separately.
func (g *Graph) ReadySet() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []string
	for _, id := range g.order {
		c := g.nodes[id]
		if c.Status != content.ChunkPending {
			continue
		}
		if g.dependenciesSatisfied(c) {
			ready = append(ready, id)
		}
	}
	return ready
}

func (g *Graph) dependenciesSatisfied(c *content.CodeChunk) bool {
	for _, dep := range c.Dependencies {
		d, ok := g.nodes[dep]
		if !ok {
			return false
		}
		if d.Status != content.ChunkCompleted && d.Status != content.ChunkValidated {
			return false
		}
	}
	return true
}

// Edge is one dependency edge: From depends on To.
type Edge struct {
	From string
	To   string
}

// DependencyGraph returns every chunk id (insertion order) and every
// dependency edge, for display or export.
func (g *Graph) DependencyGraph() ([]string, []Edge) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, len(g.order))
	copy(nodes, g.order)

	var edges []Edge
	for _, id := range g.order {
		for _, dep := range g.nodes[id].Dependencies {
			edges = append(edges, Edge{From: id, To: dep})
		}
	}
	return nodes, edges
}

// ExportEdgeList renders the dependency graph as a plain "id,dep_id" CSV,
// one edge per line, for external graph-rendering tools.
func (g *Graph) ExportEdgeList() string {
	_, edges := g.DependencyGraph()
	var b strings.Builder
	for _, e := range edges {
		b.WriteString(e.From)
		b.WriteByte(',')
		b.WriteString(e.To)
		b.WriteByte('\n')
	}
	return b.String()
}

// Filter returns every chunk id matching a doublestar glob pattern.
func (g *Graph) Filter(pattern string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, id := range g.order {
		if ok, err := doublestar.Match(pattern, id); err == nil && ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// ProjectState summarizes the graph at the Project level: how much code has
// accumulated and how much of the module layer is done versus outstanding.
type ProjectState struct {
	TotalLines        int
	CompletedModules  int
	PendingModules    int
	ContextWindowUsed int
}

// Stats computes the current ProjectState by scanning every chunk. Lines are
// counted from Code where present; modules are chunks at ChunkModule level.
func (g *Graph) Stats() ProjectState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s ProjectState
	for _, id := range g.order {
		c := g.nodes[id]
		if c.Code != "" {
			s.TotalLines += strings.Count(c.Code, "\n") + 1
		}
		s.ContextWindowUsed += c.EstimatedTokens
		if c.Level != content.LevelModule {
			continue
		}
		switch c.Status {
		case content.ChunkCompleted, content.ChunkValidated:
			s.CompletedModules++
		case content.ChunkPending, content.ChunkInProgress:
			s.PendingModules++
		}
	}
	return s
}

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueCycle      IssueKind = "cycle"
	IssueUnknownDep IssueKind = "unknown_dependency"
	IssueTokenLimit IssueKind = "token_limit"
)

// Issue is one finding from Validate.
type Issue struct {
	ChunkID string
	Kind    IssueKind
	Message string
}

// Validate reports every cycle (by DFS), every dependency referencing an
// id not in the graph, and every chunk whose estimated-tokens exceeds its
// level's limit.
func (g *Graph) Validate() []Issue {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var issues []Issue

	for _, id := range g.order {
		c := g.nodes[id]
		for _, dep := range c.Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				issues = append(issues, Issue{
					ChunkID: id,
					Kind:    IssueUnknownDep,
					Message: "depends on unknown chunk " + dep,
				})
			}
		}
		if c.ExceedsTokenLimit() {
			issues = append(issues, Issue{
				ChunkID: id,
				Kind:    IssueTokenLimit,
				Message: "estimated tokens exceed limit for level " + string(c.Level),
			})
		}
	}

	for _, id := range g.cyclicNodes() {
		issues = append(issues, Issue{ChunkID: id, Kind: IssueCycle, Message: "chunk participates in a dependency cycle"})
	}

	return issues
}

// color states for DFS cycle detection.
const (
	white = 0
	gray  = 1
	black = 2
)

// cyclicNodes returns every chunk id that participates in at least one
// dependency cycle, found via recursive DFS with a three-color mark.
func (g *Graph) cyclicNodes() []string {
	color := make(map[string]int, len(g.order))
	inCycle := make(map[string]bool)

	var visit func(id string, stack []string)
	visit = func(id string, stack []string) {
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range g.nodes[id].Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				continue // unknown dependency, reported separately
			}
			switch color[dep] {
			case white:
				visit(dep, stack)
			case gray:
				// found a back edge: everything from dep onward in stack is cyclic
				for i := len(stack) - 1; i >= 0; i-- {
					inCycle[stack[i]] = true
					if stack[i] == dep {
						break
					}
				}
			}
		}

		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			visit(id, nil)
		}
	}

	out := make([]string, 0, len(inCycle))
	for id := range inCycle {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
