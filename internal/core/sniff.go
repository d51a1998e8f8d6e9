package core

import "strings"

// DefaultDelimiter is used whenever sniffing cannot decide.
const DefaultDelimiter = ','

// DefaultSampleSize is the number of leading bytes inspected by the sniffer.
const DefaultSampleSize = 4096

// DefaultDelimiters are the candidate delimiters in preference order.
var DefaultDelimiters = []rune{',', ';'}

const (
	sniffChunkLines     = 10
	sniffMinConsistency = 0.9
	sniffStep           = 0.01
)

// SniffDelimiter picks the delimiter of a delimited-text sample.
//
// Lines are examined in chunks of ten. For each candidate the most common
// per-line count (its mode) is found, weighted by how many lines agree with
// it. A candidate qualifies when its mode is positive and the share of
// agreeing lines reaches a threshold that relaxes from 1.00 down to 0.90.
// Ties between qualifiers go to the earlier candidate.
//
// When nothing qualifies the result is [SniffFallback] with [DefaultDelimiter].
func SniffDelimiter(sample []byte, candidates []rune) SniffResult {
	if len(candidates) == 0 {
		candidates = DefaultDelimiters
	}
	if d, ok := guessDelimiter(string(sample), candidates); ok {
		return SniffResult{Delimiter: d, Outcome: SniffDetected}
	}
	return SniffResult{Delimiter: DefaultDelimiter, Outcome: SniffFallback}
}

func guessDelimiter(sample string, candidates []rune) (rune, bool) {
	var lines []string
	for _, l := range strings.Split(sample, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return 0, false
	}

	tables := make([]frequencyTable, len(candidates))
	for i := range tables {
		tables[i].counts = make(map[int]int)
	}

	chunk := min(sniffChunkLines, len(lines))
	for start, iteration := 0, 1; start < len(lines); start, iteration = start+chunk, iteration+1 {
		end := min(start+chunk, len(lines))
		for _, line := range lines[start:end] {
			for i, c := range candidates {
				tables[i].add(strings.Count(line, string(c)))
			}
		}

		total := float64(min(chunk*iteration, len(lines)))

		var found []rune
		for consistency := 1.0; len(found) == 0 && consistency >= sniffMinConsistency; consistency -= sniffStep {
			for i, c := range candidates {
				m, ok := tables[i].mode()
				if !ok || m.count <= 0 || m.weight <= 0 {
					continue
				}
				if float64(m.weight)/total >= consistency {
					found = append(found, c)
				}
			}
		}

		// The first chunk that produces any qualifier settles the answer;
		// candidates are already in preference order.
		if len(found) > 0 {
			return found[0], true
		}
	}

	return 0, false
}

// frequencyTable counts, for one candidate, how many lines contained it
// exactly n times. order keeps first-seen order so ties resolve stably.
type frequencyTable struct {
	counts map[int]int
	order  []int
}

func (f *frequencyTable) add(n int) {
	if _, seen := f.counts[n]; !seen {
		f.order = append(f.order, n)
	}
	f.counts[n]++
}

type frequencyMode struct {
	count  int // per-line occurrences
	weight int // agreeing lines minus disagreeing lines
}

// mode returns the dominant per-line count. ok is false when the candidate
// never appeared.
func (f *frequencyTable) mode() (frequencyMode, bool) {
	if len(f.order) == 0 {
		return frequencyMode{}, false
	}
	if len(f.order) == 1 {
		n := f.order[0]
		if n == 0 {
			return frequencyMode{}, false
		}
		return frequencyMode{count: n, weight: f.counts[n]}, true
	}

	best := f.order[0]
	for _, n := range f.order[1:] {
		if f.counts[n] > f.counts[best] {
			best = n
		}
	}
	weight := f.counts[best]
	for _, n := range f.order {
		if n != best {
			weight -= f.counts[n]
		}
	}
	return frequencyMode{count: best, weight: weight}, true
}
