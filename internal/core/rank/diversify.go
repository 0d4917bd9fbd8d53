package rank

import (
	"cmp"
	"slices"
)

// MaxFeedSize is the hard upper bound on a curated feed
const MaxFeedSize = 50

// DiversityOptions bound the greedy selection
type DiversityOptions struct {
	MaxPerAuthor int // hard per-author cap
	Grace        int // output size below which topic novelty is not required
	Limit        int // maximum output size, never above MaxFeedSize
}

// DefaultDiversity is 3 per author, 10 grace slots, 50 posts
func DefaultDiversity() DiversityOptions {
	return DiversityOptions{MaxPerAuthor: 3, Grace: 10, Limit: MaxFeedSize}
}

// withDefaults maps the zero value to DefaultDiversity, fills unset bounds and
// caps the limit at MaxFeedSize
func (o DiversityOptions) withDefaults() DiversityOptions {
	d := DefaultDiversity()
	if o == (DiversityOptions{}) {
		return d
	}
	if o.MaxPerAuthor <= 0 {
		o.MaxPerAuthor = d.MaxPerAuthor
	}
	if o.Grace < 0 {
		o.Grace = 0
	}
	if o.Limit <= 0 {
		o.Limit = d.Limit
	}
	o.Limit = min(o.Limit, MaxFeedSize)
	return o
}

// SortByScore returns a copy of scored sorted by descending score. Equal
// scores keep their input order.
func SortByScore(scored []Scored) []Scored {
	out := slices.Clone(scored)
	slices.SortStableFunc(out, func(a, b Scored) int { return cmp.Compare(b.Score, a.Score) })
	return out
}

// Diversify walks sorted once and keeps a post when its author is under the
// cap and either one of its topics is not yet in the output or the output is
// still inside the grace period. It stops at the limit. Output order is input
// order.
func Diversify(sorted []Scored, o DiversityOptions) []Scored {
	o = o.withDefaults()
	out := make([]Scored, 0, min(len(sorted), o.Limit))
	perAuthor := make(map[string]int)
	seenTopics := make(map[string]struct{})

	for _, s := range sorted {
		if len(out) >= o.Limit {
			break
		}
		if perAuthor[s.Post.AuthorID] >= o.MaxPerAuthor {
			continue
		}
		topics := s.Post.Topics()
		novel := false
		for _, t := range topics {
			if _, seen := seenTopics[t]; !seen {
				novel = true
				break
			}
		}
		if !novel && len(out) >= o.Grace {
			continue
		}
		out = append(out, s)
		perAuthor[s.Post.AuthorID]++
		for _, t := range topics {
			seenTopics[t] = struct{}{}
		}
	}
	return out
}

// Curate scores posts for v, sorts them by relevance and diversifies the result
func (s *Scorer) Curate(posts []Post, v Viewer, o DiversityOptions) []Scored {
	return Diversify(SortByScore(s.ScoreAll(posts, v)), o)
}
