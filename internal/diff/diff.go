// Package diff computes edit scripts between two note list snapshots.
//
// Items are matched by identity (model.SameItem) and compared by content
// (model.SameContent). A script replayed in order on the old list yields
// the new list; every position refers to the list as left by the
// preceding ops.
package diff

import (
	"fmt"
	"sort"

	"notes-go/internal/model"
)

// Kind is the type of a single edit operation.
type Kind int

const (
	Insert Kind = iota
	Remove
	Change
	Move
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Change:
		return "change"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Op is one row-level edit.
type Op struct {
	Kind Kind
	Pos  int        // Insert, Remove, Change
	From int        // Move: position before the move
	To   int        // Move: position after the move
	Note model.Note // inserted/changed note, or the removed/moved one
}

func (op Op) String() string {
	if op.Kind == Move {
		return fmt.Sprintf("move %d->%d #%d", op.From, op.To, op.Note.ID)
	}
	return fmt.Sprintf("%s @%d #%d", op.Kind, op.Pos, op.Note.ID)
}

// Script is an ordered list of edits.
type Script []Op

// Counts summarises the script by kind.
func (s Script) Counts() map[Kind]int {
	counts := make(map[Kind]int, 4)
	for _, op := range s {
		counts[op.Kind]++
	}
	return counts
}

// Compute returns the edit script transforming oldList into newList.
//
// Items on the longest common subsequence of ids stay put. Items present in
// both lists but off that subsequence are moved, each at most once. The
// script lists removes (highest position first), then moves, then inserts
// (lowest position first), then content changes at final positions.
func Compute(oldList, newList []model.Note) Script {
	matches := lcs(len(oldList), len(newList), func(i, j int) bool {
		return model.SameItem(oldList[i], newList[j])
	})

	// target[i] is the new position of old item i, or -1 when removed.
	target := make([]int, len(oldList))
	for i := range target {
		target[i] = -1
	}
	source := make([]int, len(newList))
	for j := range source {
		source[j] = -1
	}
	for _, mt := range matches {
		target[mt.old] = mt.new
		source[mt.new] = mt.old
	}

	// Pair up leftovers by id; these become moves.
	pending := make(map[int64][]int)
	for j, n := range newList {
		if source[j] < 0 {
			pending[n.ID] = append(pending[n.ID], j)
		}
	}
	var moved []int // old positions of moved items
	for i, n := range oldList {
		if target[i] >= 0 {
			continue
		}
		if queue := pending[n.ID]; len(queue) > 0 {
			j := queue[0]
			pending[n.ID] = queue[1:]
			target[i] = j
			source[j] = i
			moved = append(moved, i)
		}
	}

	var script Script

	type entry struct {
		note   model.Note
		target int
	}
	work := make([]entry, len(oldList))
	for i, n := range oldList {
		work[i] = entry{note: n, target: target[i]}
	}

	for i := len(work) - 1; i >= 0; i-- {
		if work[i].target < 0 {
			script = append(script, Op{Kind: Remove, Pos: i, Note: work[i].note})
			work = append(work[:i], work[i+1:]...)
		}
	}

	// Place moved items in ascending target order, each directly after its
	// predecessor in the new list. Items already placed always stay in
	// new-list order, so the final order is exact.
	sort.Slice(moved, func(a, b int) bool { return target[moved[a]] < target[moved[b]] })
	for _, i := range moved {
		t := target[i]

		from, pred := -1, -1
		for p, e := range work {
			if e.target == t {
				from = p
			} else if e.target < t && (pred < 0 || e.target > work[pred].target) {
				pred = p
			}
		}

		to := 0
		if pred >= 0 {
			if pred > from {
				pred--
			}
			to = pred + 1
		}
		if to == from {
			continue
		}

		e := work[from]
		work = append(work[:from], work[from+1:]...)
		work = append(work[:to], append([]entry{e}, work[to:]...)...)
		script = append(script, Op{Kind: Move, From: from, To: to, Note: e.note})
	}

	for j, n := range newList {
		if source[j] < 0 {
			script = append(script, Op{Kind: Insert, Pos: j, Note: n})
		}
	}

	for j, n := range newList {
		if i := source[j]; i >= 0 && !model.SameContent(oldList[i], n) {
			script = append(script, Op{Kind: Change, Pos: j, Note: n})
		}
	}

	return script
}

// Apply replays script on a copy of list and returns the result.
func Apply(list []model.Note, script Script) ([]model.Note, error) {
	out := append([]model.Note(nil), list...)

	for n, op := range script {
		switch op.Kind {
		case Insert:
			if op.Pos < 0 || op.Pos > len(out) {
				return nil, fmt.Errorf("op %d (%s): position out of range [0,%d]", n, op, len(out))
			}
			out = append(out[:op.Pos], append([]model.Note{op.Note}, out[op.Pos:]...)...)
		case Remove:
			if op.Pos < 0 || op.Pos >= len(out) {
				return nil, fmt.Errorf("op %d (%s): position out of range [0,%d)", n, op, len(out))
			}
			out = append(out[:op.Pos], out[op.Pos+1:]...)
		case Change:
			if op.Pos < 0 || op.Pos >= len(out) {
				return nil, fmt.Errorf("op %d (%s): position out of range [0,%d)", n, op, len(out))
			}
			out[op.Pos] = op.Note
		case Move:
			if op.From < 0 || op.From >= len(out) || op.To < 0 || op.To >= len(out) {
				return nil, fmt.Errorf("op %d (%s): position out of range [0,%d)", n, op, len(out))
			}
			item := out[op.From]
			out = append(out[:op.From], out[op.From+1:]...)
			out = append(out[:op.To], append([]model.Note{item}, out[op.To:]...)...)
		default:
			return nil, fmt.Errorf("op %d: unknown kind %s", n, op.Kind)
		}
	}

	return out, nil
}
