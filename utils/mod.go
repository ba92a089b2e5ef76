package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// TopK returns the k items with the highest scores, best first, keeping the original
// order among equal scores. When there are at most k items they are returned unchanged.
func TopK[T any, S constraints.Ordered](items []T, scores []S, k int) []T {
	if len(items) <= k {
		return items
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})
	top := make([]T, k)
	for i := range top {
		top[i] = items[idx[i]]
	}
	return top
}
