package poseseq

import (
	"context"
	"iter"

	"github.com/hupe1980/poseseq/pose"
)

// This file implements a fluent search API on top of Engine.Search.

// Query creates a new fluent search builder for the given reference poses,
// starting from DefaultQuery.
//
// Example:
//
//	matches, err := engine.Query(raise, wave).
//	    Gap(1.5).
//	    Threshold(0.9).
//	    Where(pose.Above(rwrist, nose)).
//	    Execute(ctx, frames)
func (e *Engine) Query(poses ...pose.Reference) *SearchBuilder {
	return &SearchBuilder{
		e: e,
		q: DefaultQuery(poses...),
	}
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder struct {
	e *Engine
	q Query
}

// Gap sets the largest tolerated gap in seconds between consecutive poses.
func (sb *SearchBuilder) Gap(seconds float64) *SearchBuilder {
	sb.q.GapSeconds = seconds
	return sb
}

// Threshold sets the joint similarity threshold in [0, 1].
func (sb *SearchBuilder) Threshold(t float64) *SearchBuilder {
	sb.q.SimilarityThreshold = t
	return sb
}

// Epsilon sets the coalesce tolerance in seconds.
func (sb *SearchBuilder) Epsilon(eps float64) *SearchBuilder {
	sb.q.Epsilon = eps
	return sb
}

// Aspect enables the bounding-box aspect check. Zero disables it.
func (sb *SearchBuilder) Aspect(t float64) *SearchBuilder {
	sb.q.AspectThreshold = t
	return sb
}

// Where adds joint-relation constraints every candidate frame must satisfy.
func (sb *SearchBuilder) Where(cs ...pose.Constraint) *SearchBuilder {
	sb.q.Constraints = append(sb.q.Constraints, cs...)
	return sb
}

// Build returns the query assembled so far.
func (sb *SearchBuilder) Build() Query {
	return sb.q
}

// Execute runs the search and returns the matches.
func (sb *SearchBuilder) Execute(ctx context.Context, frames []pose.Frame) ([]Match, error) {
	return sb.e.Search(ctx, frames, sb.q)
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (sb *SearchBuilder) MustExecute(ctx context.Context, frames []pose.Frame) []Match {
	matches, err := sb.Execute(ctx, frames)
	if err != nil {
		panic(err)
	}
	return matches
}

// Stream returns an iterator over matches in (start, end) order.
// The search itself runs to completion before the first yield; breaking
// from the loop only skips the conversion of the remaining matches.
func (sb *SearchBuilder) Stream(ctx context.Context, frames []pose.Frame) iter.Seq2[Match, error] {
	return func(yield func(Match, error) bool) {
		spans, err := sb.e.SearchSpans(ctx, frames, sb.q)
		if err != nil {
			yield(Match{}, err)
			return
		}
		for _, sp := range spans.All() {
			if !yield(toMatch(sp), nil) {
				return
			}
		}
	}
}

// First returns the earliest match, or ErrNotFound if there is none.
func (sb *SearchBuilder) First(ctx context.Context, frames []pose.Frame) (Match, error) {
	matches, err := sb.Execute(ctx, frames)
	if err != nil {
		return Match{}, err
	}
	if len(matches) == 0 {
		return Match{}, ErrNotFound
	}
	return matches[0], nil
}

// Count executes the search and returns the number of matches.
func (sb *SearchBuilder) Count(ctx context.Context, frames []pose.Frame) (int, error) {
	matches, err := sb.Execute(ctx, frames)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Exists checks if at least one match exists.
func (sb *SearchBuilder) Exists(ctx context.Context, frames []pose.Frame) (bool, error) {
	n, err := sb.Count(ctx, frames)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
