package diff

// match is a pair of positions (old, new) whose items share an identity.
type match struct {
	old, new int
}

// lcs returns a longest common subsequence of two sequences of lengths n and
// m as ascending index pairs, using Myers' greedy O((N+M)D) algorithm.
// eq reports whether old[i] and new[j] are the same item.
//
// Only the band of the V array touched by each round is kept for
// backtracking, so memory grows with D² rather than D·(N+M).
func lcs(n, m int, eq func(i, j int) bool) []match {
	total := n + m
	if total == 0 {
		return nil
	}

	offset := total + 1
	v := make([]int, 2*total+3)
	var trace [][]int

	found := false
	for d := 0; d <= total && !found; d++ {
		// trace[d] holds V for k in [-d, d] as it was before round d.
		band := make([]int, 2*d+1)
		copy(band, v[offset-d:offset+d+1])
		trace = append(trace, band)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(x, y) {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				found = true
				break
			}
		}
	}

	var matches []match
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d]
		at := func(k int) int { return prev[k+d] }

		k := x - y
		var prevK int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			matches = append(matches, match{old: x, new: y})
		}
		x, y = prevX, prevY
	}
	for x > 0 && y > 0 {
		x--
		y--
		matches = append(matches, match{old: x, new: y})
	}

	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
	return matches
}
