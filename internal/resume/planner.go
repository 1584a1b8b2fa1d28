// Package resume decides where an incremental crawl picks up. The resume
// point is resolved once at startup, in priority order: explicit term and
// sitting number parameters, then the highest ordering key already in
// storage, then full mode when storage is empty. Sittings strictly below the
// point are skipped; the sitting at the point is re-processed because its
// earlier crawl may have been incomplete.
package resume

import (
	"context"
	"fmt"

	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/pspurl"
)

// Mode is the crawl mode.
type Mode int

const (
	// ModeFull processes every discoverable sitting.
	ModeFull Mode = iota
	// ModeIncremental skips sittings below the resume point.
	ModeIncremental
)

// String returns the mode name for logs.
func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "incremental"
}

// Params are the invocation parameters influencing the resume point.
// Term and Sitting are explicit resume coordinates; both must be set to take
// effect — a partial pair falls back to the storage-derived point.
type Params struct {
	Full    bool
	Term    int
	Sitting int
}

// SittingURLLister provides the stored sitting URLs. Implemented by the
// sitting repository.
type SittingURLLister interface {
	ListURLs(ctx context.Context) ([]string, error)
}

// Planner holds the resolved mode and resume point for one run.
type Planner struct {
	mode  Mode
	point pspurl.SittingKey
}

// NewPlanner resolves the resume point. The decision is one-shot: it is not
// re-evaluated mid-run.
func NewPlanner(ctx context.Context, params Params, store SittingURLLister, log logger.Interface) (*Planner, error) {
	if params.Full {
		log.Info("Resume planner: full mode requested")
		return &Planner{mode: ModeFull}, nil
	}

	if params.Term > 0 && params.Sitting > 0 {
		point := pspurl.SittingKey{Term: params.Term, Number: params.Sitting}
		log.Info("Resume planner: explicit resume point", "point", point.String())
		return &Planner{mode: ModeIncremental, point: point}, nil
	}

	if params.Term > 0 || params.Sitting > 0 {
		log.Warn("Resume planner: partial resume parameters ignored, falling back to storage",
			"term", params.Term, "sitting", params.Sitting)
	}

	point, found, err := storageResumePoint(ctx, store)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Info("Resume planner: storage empty, falling back to full mode")
		return &Planner{mode: ModeFull}, nil
	}

	log.Info("Resume planner: resuming from latest stored sitting", "point", point.String())
	return &Planner{mode: ModeIncremental, point: point}, nil
}

// storageResumePoint finds the maximum ordering key among stored sittings.
// Comparison is numeric over the decoded (term, number) pair; the URLs
// themselves do not sort correctly as strings. Stored URLs without a
// decodable key are ignored.
func storageResumePoint(ctx context.Context, store SittingURLLister) (pspurl.SittingKey, bool, error) {
	urls, err := store.ListURLs(ctx)
	if err != nil {
		return pspurl.SittingKey{}, false, fmt.Errorf("resolve resume point: %w", err)
	}

	var (
		max   pspurl.SittingKey
		found bool
	)
	for _, u := range urls {
		key, parseErr := pspurl.ParseSittingKey(u)
		if parseErr != nil {
			continue
		}
		if !found || max.Before(key) {
			max = key
			found = true
		}
	}

	return max, found, nil
}

// Mode returns the resolved crawl mode.
func (p *Planner) Mode() Mode { return p.mode }

// ResumePoint returns the resume point; ok is false in full mode.
func (p *Planner) ResumePoint() (point pspurl.SittingKey, ok bool) {
	return p.point, p.mode == ModeIncremental
}

// ShouldProcess reports whether a discovered sitting is at or after the
// resume point. Equality is processed, never skipped.
func (p *Planner) ShouldProcess(key pspurl.SittingKey) bool {
	if p.mode == ModeFull {
		return true
	}
	return !key.Before(p.point)
}
