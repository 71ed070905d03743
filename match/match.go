// Package match implements the subsequence matcher and ranking used by all
// completion providers.
//
// Matching is all-or-nothing: a query matches only when every character is a
// case-insensitive subsequence of the target, verified in a single forward
// scan. Scoring is additive and can go negative; scores are comparable only
// within one query.
package match

import (
	"strings"
	"time"
	"unicode"

	"github.com/hlvm-dev/hqlc/logger"
)

// Scoring weights. Empirically tuned; changing any of these silently
// reorders results, so treat the table as frozen.
const (
	baseWeight        = 20 // every matched character
	consecutiveWeight = 30 // per position in an unbroken run, multiplied by run length
	boundaryWeight    = 40 // match at index 0 or after a separator character
	camelWeight       = 30 // uppercase immediately following lowercase
	caseWeight        = 10 // original case agrees with the query
	filenameWeight    = 50 // any match after the last path separator
	lengthPenalty     = 1  // per target character
	leadingPenalty    = 4  // per character before the first match
)

// boundaryChars precede a word boundary inside identifiers and paths.
const boundaryChars = "/\\-_."

// Result describes a successful match.
type Result struct {
	// Score is the additive match score; higher is better, may be negative.
	Score int
	// Indices are the rune positions of matched characters in the target,
	// strictly increasing, one per query character.
	Indices []int
}

// Match scores query against target. The second return is false when the
// query is not a case-insensitive subsequence of the target.
func Match(query, target string) (Result, bool) {
	if query == "" {
		return Result{}, false
	}

	queryRunes := []rune(query)
	targetRunes := []rune(target)
	if len(queryRunes) > len(targetRunes) {
		return Result{}, false
	}

	indices := make([]int, 0, len(queryRunes))
	score := 0
	run := 0
	lastMatched := -2

	qi := 0
	for ti := 0; ti < len(targetRunes) && qi < len(queryRunes); ti++ {
		tr := targetRunes[ti]
		qr := queryRunes[qi]
		if unicode.ToLower(tr) != unicode.ToLower(qr) {
			continue
		}

		score += baseWeight

		if ti == lastMatched+1 {
			run++
			score += consecutiveWeight * run
		} else {
			run = 0
		}

		if ti == 0 || strings.ContainsRune(boundaryChars, targetRunes[ti-1]) {
			score += boundaryWeight
		}
		if ti > 0 && unicode.IsUpper(tr) && unicode.IsLower(targetRunes[ti-1]) {
			score += camelWeight
		}
		if tr == qr {
			score += caseWeight
		}

		indices = append(indices, ti)
		lastMatched = ti
		qi++
	}

	if qi != len(queryRunes) {
		return Result{}, false
	}

	score -= lengthPenalty * len(targetRunes)
	score -= leadingPenalty * indices[0]

	if sep := lastSeparator(targetRunes); sep >= 0 {
		for _, idx := range indices {
			if idx > sep {
				score += filenameWeight
				break
			}
		}
	}

	return Result{Score: score, Indices: indices}, true
}

// lastSeparator returns the rune index of the last path separator, -1 if none.
func lastSeparator(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '/' || runes[i] == '\\' {
			return i
		}
	}
	return -1
}

// Item is a searchable candidate with optional caller data.
type Item struct {
	Text string
	Data any
}

// Candidate is a scored item held by a Collector.
type Candidate struct {
	Item
	Score   int
	Indices []int
}

// Best matches query against every item, keeping the top k by score.
// Results come back in descending score order.
func Best(query string, items []Item, k int) []Candidate {
	start := time.Now()
	c := NewCollector(k)
	for _, item := range items {
		if r, ok := Match(query, item.Text); ok {
			c.Add(Candidate{Item: item, Score: r.Score, Indices: r.Indices})
		}
	}
	results := c.Results()

	if len(results) > 0 {
		logger.Debugw("fuzzy match",
			"query", query,
			"candidates", len(items),
			"matches", len(results),
			"time_us", time.Since(start).Microseconds(),
			"top_match", results[0].Text,
		)
	}

	return results
}
