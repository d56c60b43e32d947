package knowledge

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/todozi/todozi/pkg/registry"
)

const (
	normTolerance = 1e-3
	outlierSigmas = 3.0
)

// ValidateEmbeddings checks every registry entry's vector: dimension
// matches the current model, no NaN/Inf components, unit norm within
// tolerance, not the zero vector, and no length outlier beyond 3 standard
// deviations from the global mean vector length.
func (s *Service) ValidateEmbeddings() ValidationReport {
	s.mu.Lock()
	embedder, err := s.currentEmbedder()
	s.mu.Unlock()

	entries := s.reg.All(registry.Filter{})

	var report ValidationReport
	if err != nil {
		for _, e := range entries {
			report.Anomalies = append(report.Anomalies, Anomaly{ContentID: e.ID, Reason: "no model loaded"})
		}
		return report
	}
	wantDims := embedder.Dimensions()

	lengths := make([]float64, 0, len(entries))
	for _, e := range entries {
		lengths = append(lengths, norm(e.Vector))
	}
	meanLen, stdLen := meanStd(lengths)

	// Anomaly checks are pure functions of one entry's own vector plus the
	// already-computed global mean/stddev, so scanning a large registry is
	// split into a bounded number of concurrent workers the same way the
	// embedding provider bounds its batch concurrency.
	var g errgroup.Group
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))
	var mu sync.Mutex
	for i, e := range entries {
		g.Go(func() error {
			if reason, bad := anomalyReason(e.Vector, wantDims, lengths[i], meanLen, stdLen); bad {
				mu.Lock()
				report.Anomalies = append(report.Anomalies, Anomaly{ContentID: e.ID, Reason: reason})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Anomalies, func(i, j int) bool { return report.Anomalies[i].ContentID < report.Anomalies[j].ContentID })
	return report
}

func anomalyReason(v []float64, wantDims int, length, meanLen, stdLen float64) (string, bool) {
	if len(v) == 0 {
		return "zero vector", true
	}
	if len(v) != wantDims {
		return "dimension mismatch", true
	}
	for _, x := range v {
		if math.IsNaN(x) {
			return "NaN component", true
		}
		if math.IsInf(x, 0) {
			return "Inf component", true
		}
	}
	allZero := true
	for _, x := range v {
		if x != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return "zero vector", true
	}
	if math.Abs(length-1) > normTolerance {
		return "norm outside unit tolerance", true
	}
	if stdLen > 0 && math.Abs(length-meanLen) > outlierSigmas*stdLen {
		return "vector length outlier", true
	}
	return "", false
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	for _, v := range values {
		std += (v - mean) * (v - mean)
	}
	std = math.Sqrt(std / float64(len(values)))
	return mean, std
}
