package index

import (
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/ports"
)

// globPrefilter narrows the catch-all scan. Every non-empty literal segment
// of a Glob field is a necessary substring of the matching field value, so a
// pattern whose segments are not all present cannot match and is skipped.
// Survivors still run the full predicate, so results equal a plain scan.
type globPrefilter struct {
	scanners [exbase.NumFields]ports.SegmentScanner // nil when the field has no segments
	segCount [exbase.NumFields]int
	entries  []prefilterEntry // catch-all order
}

type prefilterEntry struct {
	pattern  exbase.Pattern
	required [exbase.NumFields][]int // segment ids per field
}

func buildPrefilter(patterns []exbase.Pattern, newScanner func() ports.SegmentScanner) *globPrefilter {
	pf := &globPrefilter{entries: make([]prefilterEntry, len(patterns))}

	var segments [exbase.NumFields][]string
	var ids [exbase.NumFields]map[string]int
	for f := range ids {
		ids[f] = make(map[string]int)
	}

	for i, p := range patterns {
		pf.entries[i].pattern = p
		for _, f := range exbase.Fields {
			for _, seg := range p.Item(f).Segments() {
				if seg == "" {
					continue
				}
				id, ok := ids[f][seg]
				if !ok {
					id = len(segments[f])
					ids[f][seg] = id
					segments[f] = append(segments[f], seg)
				}
				pf.entries[i].required[f] = append(pf.entries[i].required[f], id)
			}
		}
	}

	for _, f := range exbase.Fields {
		if len(segments[f]) == 0 {
			continue
		}
		s := newScanner()
		s.Rebuild(segments[f])
		pf.scanners[f] = s
		pf.segCount[f] = len(segments[f])
	}
	return pf
}

func (pf *globPrefilter) match(k exbase.Key) (exbase.Pattern, bool) {
	var present [exbase.NumFields][]bool
	for _, f := range exbase.Fields {
		if pf.scanners[f] == nil {
			continue
		}
		present[f] = make([]bool, pf.segCount[f])
		for _, id := range pf.scanners[f].Scan(k.Field(f)) {
			if id >= 0 && id < len(present[f]) {
				present[f][id] = true
			}
		}
	}

	for _, e := range pf.entries {
		if !e.satisfied(&present) {
			continue
		}
		if e.pattern.Matches(k) {
			return e.pattern, true
		}
	}
	return exbase.Pattern{}, false
}

func (e *prefilterEntry) satisfied(present *[exbase.NumFields][]bool) bool {
	for f, ids := range e.required {
		for _, id := range ids {
			if !present[f][id] {
				return false
			}
		}
	}
	return true
}
