package search

import (
	"github.com/poiesic/conceptrag/core"
)

// SearchMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during search.
// Callbacks run sequentially on the request goroutine.
type SearchMonitor interface {
	Start(query string)
	AfterExpansion(q *core.ExpandedQuery)
	AfterCandidateFetch(ids []core.ID)
	AfterWeightAdjustment(profile core.WeightProfile, boostFactor float64)
	ScoredCandidate(result *core.RankedResult)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                        {}
func (n *noopMonitor) AfterExpansion(_ *core.ExpandedQuery)                  {}
func (n *noopMonitor) AfterCandidateFetch(_ []core.ID)                       {}
func (n *noopMonitor) AfterWeightAdjustment(_ core.WeightProfile, _ float64) {}
func (n *noopMonitor) ScoredCandidate(_ *core.RankedResult)                  {}
func (n *noopMonitor) Finish(_ []core.RankedResult)                          {}
