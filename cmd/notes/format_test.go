package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"

	"notes-go/internal/diff"
	"notes-go/internal/model"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: "42", want: 42},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintChange(t *testing.T) {
	color.NoColor = true
	note := model.Note{ID: 3, Title: "Buy milk", Date: "2024-01-01 10:00:00"}

	tests := []struct {
		name string
		op   diff.Op
		want string
	}{
		{name: "insert", op: diff.Op{Kind: diff.Insert, Pos: 0, Note: note}, want: "+ [0] #3     2024-01-01 10:00:00  Buy milk\n"},
		{name: "remove", op: diff.Op{Kind: diff.Remove, Pos: 2, Note: note}, want: "- [2] #3     2024-01-01 10:00:00  Buy milk\n"},
		{name: "change", op: diff.Op{Kind: diff.Change, Pos: 1, Note: note}, want: "~ [1] #3     2024-01-01 10:00:00  Buy milk\n"},
		{name: "move", op: diff.Op{Kind: diff.Move, From: 0, To: 2, Note: note}, want: "> [0->2] #3     2024-01-01 10:00:00  Buy milk\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printChange(&buf, tt.op)
			if got := buf.String(); got != tt.want {
				t.Errorf("printChange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintNote_Description(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printNote(&buf, model.Note{ID: 1, Title: "List", Date: "2024-01-01 10:00:00", Description: "eggs\nflour"})

	want := "#1     2024-01-01 10:00:00  List\n       eggs\n       flour\n"
	if got := buf.String(); got != want {
		t.Errorf("printNote() = %q, want %q", got, want)
	}
}
