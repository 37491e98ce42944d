package cis

// Group is an ordered run of recommendations sharing a leading section
// number.
type Group struct {
	Section string
	Records []Recommendation
}

// GroupBySection partitions records by the leading component of Num,
// preserving record order within each group. Input is expected to be
// sorted (SortByNum), in which case groups emerge in ascending numeric
// order.
func GroupBySection(recs []Recommendation) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range recs {
		key := r.Section()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Section: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
