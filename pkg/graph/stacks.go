package graph

import (
	"sort"
	"time"
)

// buildStacks walks from each leaf to its root via the adjacency map,
// producing one BranchStack per leaf ordered trunk-to-leaf. Leaves are
// processed in change ID order for deterministic output.
func buildStacks(leaves map[string]bool, adjacency map[string]string, segments map[string]BookmarkSegment) []BranchStack {
	sorted := make([]string, 0, len(leaves))
	for id := range leaves {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	stacks := make([]BranchStack, 0, len(sorted))
	for _, leaf := range sorted {
		path := []string{leaf}
		for current := leaf; ; {
			parent, ok := adjacency[current]
			if !ok {
				break
			}
			path = append(path, parent)
			current = parent
		}

		// Reverse so the trunk end comes first.
		stack := BranchStack{Segments: make([]BookmarkSegment, 0, len(path))}
		for i := len(path) - 1; i >= 0; i-- {
			if seg, ok := segments[path[i]]; ok {
				stack.Segments = append(stack.Segments, seg)
			}
		}
		stacks = append(stacks, stack)
	}

	return stacks
}

// TopologicalOrder returns change IDs ordered leaves-first, roots-last
// using Kahn's algorithm. Leaves are seeded in ascending order of their
// segment's first commit timestamp, oldest work first; equal timestamps
// fall back to change ID order. A parent that becomes ready is placed
// at the front of the queue so each stack stays visually grouped.
func TopologicalOrder(g *ChangeGraph) []string {
	inDegree := make(map[string]int)
	for _, parent := range g.Adjacency {
		inDegree[parent]++
	}

	leaves := make([]string, 0, len(g.Leaves))
	for id := range g.Leaves {
		leaves = append(leaves, id)
	}
	sort.Slice(leaves, func(i, j int) bool {
		ti := segmentTime(g, leaves[i])
		tj := segmentTime(g, leaves[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return leaves[i] < leaves[j]
	})

	queue := leaves
	result := make([]string, 0, len(g.Segments))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		parent, ok := g.Adjacency[id]
		if !ok {
			continue
		}
		inDegree[parent]--
		if inDegree[parent] == 0 {
			queue = append([]string{parent}, queue...)
		}
	}

	return result
}

func segmentTime(g *ChangeGraph, id string) time.Time {
	if seg, ok := g.Segments[id]; ok && len(seg.Commits) > 0 {
		return seg.Commits[0].Timestamp
	}
	return time.Time{}
}
