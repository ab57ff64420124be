package research

import (
	"encoding/json"
	"fmt"
)

// ReferenceIndex maps source urls to citation numbers in first-seen order.
type ReferenceIndex struct {
	numbers map[string]int
	urls    []string
}

// BuildReferenceIndex numbers every distinct non-empty source url, walking
// results in order and each result's sources in order.
func BuildReferenceIndex(results []SearchResult) *ReferenceIndex {
	idx := &ReferenceIndex{numbers: make(map[string]int)}
	for _, res := range results {
		for _, url := range res.Sources {
			if url == "" {
				continue
			}
			if _, seen := idx.numbers[url]; seen {
				continue
			}
			idx.urls = append(idx.urls, url)
			idx.numbers[url] = len(idx.urls)
		}
	}
	return idx
}

// Number returns the citation number of url.
func (r *ReferenceIndex) Number(url string) (int, bool) {
	if r == nil {
		return 0, false
	}
	n, ok := r.numbers[url]
	return n, ok
}

// URLs lists urls by ascending citation number.
func (r *ReferenceIndex) URLs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.urls...)
}

func (r *ReferenceIndex) Len() int {
	if r == nil {
		return 0
	}
	return len(r.urls)
}

// Map returns a copy of the url to number mapping.
func (r *ReferenceIndex) Map() map[string]int {
	out := make(map[string]int, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.numbers {
		out[k] = v
	}
	return out
}

// Citation renders the marker for url, or "" if it is not indexed.
func (r *ReferenceIndex) Citation(url string) string {
	if n, ok := r.Number(url); ok {
		return fmt.Sprintf("[%d]", n)
	}
	return ""
}

type reference struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// MarshalJSON encodes the index as a list ordered by citation number.
func (r *ReferenceIndex) MarshalJSON() ([]byte, error) {
	refs := make([]reference, 0, r.Len())
	for i, url := range r.URLs() {
		refs = append(refs, reference{Number: i + 1, URL: url})
	}
	return json.Marshal(refs)
}
