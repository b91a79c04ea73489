package similarity

import (
	"semsim-be/pkg/store"
)

// Group clusters fragments whose vectors are within threshold cosine
// similarity of a shared reference fragment, in a single greedy pass.
//
// Fragments are visited in input order. The first unconsumed fragment becomes
// the reference of a new group; every later unconsumed fragment is compared
// against that reference only, so members of a group are similar to the
// reference but not necessarily to each other. Matches join the group and
// are consumed. Groups with a single member are dropped: a fragment with no
// partner above the threshold is not a duplicate of anything.
//
// Output order follows the order references were encountered; members keep
// the order they were matched in. O(n^2) comparisons, fine for the
// hundreds-to-low-thousands of fragments a document yields.
//
// A comparison error (dimension mismatch) aborts grouping; partial groups are
// not returned.
func Group(fragments []store.Fragment, threshold float64) ([][]string, error) {
	groups := make([][]string, 0)
	consumed := make([]bool, len(fragments))

	for i := 0; i < len(fragments); i++ {
		if consumed[i] {
			continue
		}

		reference := fragments[i]
		members := []string{reference.Text}
		consumed[i] = true

		for j := i + 1; j < len(fragments); j++ {
			if consumed[j] {
				continue
			}

			score, err := CosineSimilarity(reference.Vector, fragments[j].Vector)
			if err != nil {
				return nil, err
			}
			if score >= threshold {
				members = append(members, fragments[j].Text)
				consumed[j] = true
			}
		}

		if len(members) > 1 {
			groups = append(groups, members)
		}
	}

	return groups, nil
}
