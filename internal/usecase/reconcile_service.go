package usecase

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/matchfeed/matchfeed/internal/domain/category"
	"github.com/matchfeed/matchfeed/internal/domain/match"
)

// KeyPolicy selects how identity keys are rendered. The policy is fixed at
// construction; a catalog never mixes key forms.
type KeyPolicy string

const (
	// KeyPolicyComposite keeps the verbatim schedule|competition|title key.
	KeyPolicyComposite KeyPolicy = "composite"
	// KeyPolicyDigest renders the key as 16 hex characters of its MD5 digest.
	KeyPolicyDigest KeyPolicy = "digest"
)

// ReconcileResult is one run's reconciled catalog with its counters.
type ReconcileResult struct {
	// Matches holds the catalog in first-seen order.
	Matches []*match.Match
	// Total is len(Matches).
	Total int
	// ByCategory counts matches per category code; uncategorized under "".
	ByCategory map[string]int
	// BySource counts merged observations per source tag.
	BySource map[string]int
}

// ReconcileService folds raw observations from all upstreams into a
// deduplicated match catalog. It owns the key to match map for the run and is
// not safe for concurrent use; callers materialize all observations first.
type ReconcileService struct {
	policy KeyPolicy
}

// NewReconcileService builds an engine with the given key policy.
func NewReconcileService(policy KeyPolicy) (*ReconcileService, error) {
	switch policy {
	case KeyPolicyComposite, KeyPolicyDigest:
		return &ReconcileService{policy: policy}, nil
	default:
		return nil, fmt.Errorf("%w: unknown key policy %q", ErrInvalidInput, policy)
	}
}

// Reconcile merges observations in arrival order and returns the catalog.
// now is the single reference instant for status inference.
func (s *ReconcileService) Reconcile(observations []match.Observation, now time.Time) ReconcileResult {
	result := ReconcileResult{
		ByCategory: make(map[string]int),
		BySource:   make(map[string]int),
	}
	index := make(map[string]*match.Match, len(observations))

	for _, obs := range observations {
		obs.ScheduleText = match.CanonicalScheduleText(obs.ScheduleText)
		if !obs.HasIdentity() {
			continue
		}

		key := s.renderKey(identityComposite(obs))
		m, ok := index[key]
		if !ok {
			m = s.materialize(key, obs, now)
			index[key] = m
			result.Matches = append(result.Matches, m)
		}

		if obs.URL != "" {
			m.MergeNode(nodeName(obs), obs.URL)
		}
		result.BySource[obs.Source]++
	}

	result.Total = len(result.Matches)
	for _, m := range result.Matches {
		result.ByCategory[m.Category]++
	}

	return result
}

// identityComposite renders the raw identity text for an observation.
// Replay-style sources with a stable upstream id live in their own identity
// domain so they never collide with schedule-keyed matches.
func identityComposite(obs match.Observation) string {
	if obs.KeyScope != "" && obs.ExternalID != "" {
		return obs.KeyScope + ":" + obs.ExternalID
	}
	return obs.ScheduleText + "|" + obs.Competition + "|" + obs.Title
}

func (s *ReconcileService) renderKey(composite string) string {
	if s.policy == KeyPolicyDigest {
		return shortDigest(composite)
	}
	return composite
}

// materialize creates the match for a key from its first observation.
// Scalars are first-writer-wins: later observations only add nodes.
func (s *ReconcileService) materialize(key string, obs match.Observation, now time.Time) *match.Match {
	status := obs.Status
	if status == "" {
		status = match.InferStatus(obs.ScheduleText, now)
	}

	displayID := obs.ExternalID
	if displayID == "" {
		displayID = shortDigest(identityComposite(obs))
	}

	return &match.Match{
		Key:          key,
		DisplayID:    displayID,
		ScheduleText: obs.ScheduleText,
		Competition:  obs.Competition,
		Title:        obs.Title,
		Teams:        obs.Teams,
		Score:        obs.Score,
		Category:     category.Classify(obs.Competition),
		Status:       status,
		CoverURL:     obs.CoverURL,
	}
}

func nodeName(obs match.Observation) string {
	switch {
	case obs.NodeName != "":
		return obs.NodeName
	case obs.Teams != "":
		return obs.Teams
	case obs.Title != "":
		return obs.Title
	default:
		return "main feed"
	}
}

func shortDigest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
