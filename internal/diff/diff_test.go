package diff

import (
	"fmt"
	"math/rand"
	"testing"

	"notes-go/internal/model"
)

func note(id int64, title string) model.Note {
	return model.Note{ID: id, Title: title, Date: "2024-01-01 10:00:00"}
}

func notesFromIDs(ids ...int64) []model.Note {
	out := make([]model.Note, len(ids))
	for i, id := range ids {
		out[i] = note(id, fmt.Sprintf("note %d", id))
	}
	return out
}

func assertSameList(t *testing.T, got, want []model.Note) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (got %v, want %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if !model.SameItem(got[i], want[i]) || !model.SameContent(got[i], want[i]) {
			t.Fatalf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func assertRoundTrip(t *testing.T, oldList, newList []model.Note) Script {
	t.Helper()
	script := Compute(oldList, newList)
	got, err := Apply(oldList, script)
	if err != nil {
		t.Fatalf("Apply() error = %v (script %v)", err, script)
	}
	assertSameList(t, got, newList)
	return script
}

func TestCompute_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		oldList []model.Note
		newList []model.Note
		want    map[Kind]int
	}{
		{
			name:    "both empty",
			oldList: nil,
			newList: nil,
			want:    map[Kind]int{},
		},
		{
			name:    "empty old list inserts everything",
			oldList: nil,
			newList: notesFromIDs(1, 2, 3),
			want:    map[Kind]int{Insert: 3},
		},
		{
			name:    "empty new list removes everything",
			oldList: notesFromIDs(1, 2, 3),
			newList: nil,
			want:    map[Kind]int{Remove: 3},
		},
		{
			name:    "identical lists",
			oldList: notesFromIDs(1, 2, 3),
			newList: notesFromIDs(1, 2, 3),
			want:    map[Kind]int{},
		},
		{
			name:    "move last to front",
			oldList: notesFromIDs(1, 2, 3, 4),
			newList: notesFromIDs(4, 1, 2, 3),
			want:    map[Kind]int{Move: 1},
		},
		{
			name:    "move first to back",
			oldList: notesFromIDs(1, 2, 3, 4),
			newList: notesFromIDs(2, 3, 4, 1),
			want:    map[Kind]int{Move: 1},
		},
		{
			name:    "swap neighbours",
			oldList: notesFromIDs(1, 2),
			newList: notesFromIDs(2, 1),
			want:    map[Kind]int{Move: 1},
		},
		{
			name:    "single change",
			oldList: []model.Note{note(1, "A"), note(2, "B")},
			newList: []model.Note{note(1, "A"), note(2, "B2")},
			want:    map[Kind]int{Change: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := assertRoundTrip(t, tt.oldList, tt.newList)
			got := script.Counts()
			for _, k := range []Kind{Insert, Remove, Change, Move} {
				if got[k] != tt.want[k] {
					t.Errorf("%s count = %d, want %d (script %v)", k, got[k], tt.want[k], script)
				}
			}
		})
	}
}

func TestCompute_ReorderProducesOnlyMoves(t *testing.T) {
	oldList := notesFromIDs(1, 2, 3, 4, 5, 6)
	newList := notesFromIDs(6, 4, 2, 5, 1, 3)

	script := assertRoundTrip(t, oldList, newList)
	for _, op := range script {
		if op.Kind != Move {
			t.Errorf("unexpected op %v in pure reorder", op)
		}
	}
	if len(script) == 0 {
		t.Error("expected at least one move")
	}
}

func TestCompute_ReplaceScenario(t *testing.T) {
	oldList := []model.Note{note(1, "A"), note(2, "B")}
	newList := []model.Note{note(2, "B"), note(3, "C")}

	script := assertRoundTrip(t, oldList, newList)

	want := Script{
		{Kind: Remove, Pos: 0, Note: oldList[0]},
		{Kind: Insert, Pos: 1, Note: newList[1]},
	}
	if len(script) != len(want) {
		t.Fatalf("script = %v, want %v", script, want)
	}
	for i := range want {
		if script[i].Kind != want[i].Kind || script[i].Pos != want[i].Pos || script[i].Note.ID != want[i].Note.ID {
			t.Errorf("op %d = %v, want %v", i, script[i], want[i])
		}
	}
}

func TestCompute_MovedAndChanged(t *testing.T) {
	oldList := []model.Note{note(1, "A"), note(2, "B"), note(3, "C")}
	newList := []model.Note{note(3, "C edited"), note(1, "A"), note(2, "B")}

	script := assertRoundTrip(t, oldList, newList)

	counts := script.Counts()
	if counts[Move] != 1 || counts[Change] != 1 || len(script) != 2 {
		t.Errorf("script = %v, want one move and one change", script)
	}
	last := script[len(script)-1]
	if last.Kind != Change || last.Pos != 0 {
		t.Errorf("last op = %v, want change at final position 0", last)
	}
}

func TestCompute_DuplicateIDs(t *testing.T) {
	oldList := []model.Note{note(0, "draft a"), note(1, "A"), note(0, "draft b")}
	newList := []model.Note{note(0, "draft b"), note(1, "A"), note(0, "draft a")}

	assertRoundTrip(t, oldList, newList)
}

func TestCompute_SelfDiffIsEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		list := randomList(rng, rng.Intn(40))
		if script := Compute(list, list); len(script) != 0 {
			t.Fatalf("Compute(list, list) = %v, want empty", script)
		}
	}
}

func TestCompute_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 500; trial++ {
		oldList := randomList(rng, rng.Intn(30))
		newList := mutate(rng, oldList)

		t.Run(fmt.Sprintf("trial-%d", trial), func(t *testing.T) {
			assertRoundTrip(t, oldList, newList)
		})
	}
}

func TestApply_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		op   Op
	}{
		{"insert past end", Op{Kind: Insert, Pos: 3}},
		{"remove past end", Op{Kind: Remove, Pos: 2}},
		{"change negative", Op{Kind: Change, Pos: -1}},
		{"move past end", Op{Kind: Move, From: 0, To: 2}},
		{"unknown kind", Op{Kind: Kind(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Apply(notesFromIDs(1, 2), Script{tt.op}); err == nil {
				t.Error("Apply() expected error, got nil")
			}
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	list := notesFromIDs(1, 2, 3)
	script := Compute(list, notesFromIDs(3, 2))

	if _, err := Apply(list, script); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	assertSameList(t, list, notesFromIDs(1, 2, 3))
}

func TestLCS(t *testing.T) {
	a := []int64{1, 2, 3, 4, 5}
	b := []int64{2, 9, 3, 5, 1}

	matches := lcs(len(a), len(b), func(i, j int) bool { return a[i] == b[j] })
	if len(matches) != 3 {
		t.Fatalf("len(lcs) = %d, want 3 (%v)", len(matches), matches)
	}
	for n := 1; n < len(matches); n++ {
		if matches[n].old <= matches[n-1].old || matches[n].new <= matches[n-1].new {
			t.Errorf("matches not strictly ascending: %v", matches)
		}
	}
	for _, m := range matches {
		if a[m.old] != b[m.new] {
			t.Errorf("match %v pairs %d with %d", m, a[m.old], b[m.new])
		}
	}
}

func TestKind_String(t *testing.T) {
	if Move.String() != "move" || Insert.String() != "insert" {
		t.Errorf("unexpected kind names: %s %s", Move, Insert)
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", Kind(9).String())
	}
}

func randomList(rng *rand.Rand, n int) []model.Note {
	ids := rng.Perm(n * 2)
	out := make([]model.Note, n)
	for i := 0; i < n; i++ {
		id := int64(ids[i] + 1)
		out[i] = note(id, fmt.Sprintf("note %d", id))
	}
	return out
}

// mutate removes, inserts, edits and shuffles items of list.
func mutate(rng *rand.Rand, list []model.Note) []model.Note {
	out := make([]model.Note, 0, len(list)+5)
	for _, n := range list {
		if rng.Intn(5) == 0 {
			continue
		}
		if rng.Intn(4) == 0 {
			n.Title += " (edited)"
		}
		out = append(out, n)
	}

	nextID := int64(1000)
	for k := rng.Intn(5); k > 0; k-- {
		pos := rng.Intn(len(out) + 1)
		nextID++
		out = append(out[:pos], append([]model.Note{note(nextID, "new")}, out[pos:]...)...)
	}

	for k := rng.Intn(3); k > 0 && len(out) > 1; k-- {
		i, j := rng.Intn(len(out)), rng.Intn(len(out))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
