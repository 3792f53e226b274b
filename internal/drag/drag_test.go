package drag

import (
	"errors"
	"math"
	"testing"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"
)

func rows(pairs ...[2]int64) []model.WishlistItem {
	out := make([]model.WishlistItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.WishlistItem{ProductID: p[0], Position: p[1]})
	}
	return out
}

func TestBeforePosition(t *testing.T) {
	t.Parallel()

	three := rows([2]int64{5, 10}, [2]int64{8, 30}, [2]int64{2, 50})

	tests := []struct {
		name   string
		rows   []model.WishlistItem
		source int64
		target int64
		want   int64
	}{
		{"moving down takes the next row's position", three, 5, 8, 50},
		{"moving up takes the target's position", three, 2, 8, 30},
		{"moving up to the first row", three, 2, 5, 10},
		{"moving down two rows", three, 5, 2, 50 + DefaultTailGap},
		{"dropping onto the last row appends", rows([2]int64{1, 10}, [2]int64{2, 20}), 1, 2, 20 + DefaultTailGap},
		{"dropping onto itself follows the algorithm", three, 8, 8, 50},
		{"source outside the rows moves toward the back", three, 99, 5, 30},
	}

	for _, tt := range tests {
		got, err := BeforePosition(tt.rows, tt.source, tt.target)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: BeforePosition(%d onto %d)=%d, want %d", tt.name, tt.source, tt.target, got, tt.want)
		}
	}
}

func TestBeforePosition_LastRowIsPastTarget(t *testing.T) {
	t.Parallel()

	got, err := BeforePosition(rows([2]int64{1, 10}, [2]int64{2, 20}), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 20 {
		t.Fatalf("expected a key past 20, got %d", got)
	}
}

func TestPolicy_TailGap(t *testing.T) {
	t.Parallel()

	p := Policy{TailGap: 7}
	got, err := p.BeforePosition(rows([2]int64{1, 10}, [2]int64{2, 20}), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 27 {
		t.Fatalf("got %d, want 27", got)
	}

	// A non-positive gap falls back to the default.
	got, err = Policy{}.BeforePosition(rows([2]int64{1, 10}, [2]int64{2, 20}), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20+DefaultTailGap {
		t.Fatalf("got %d, want %d", got, 20+DefaultTailGap)
	}
}

func TestBeforePosition_Errors(t *testing.T) {
	t.Parallel()

	three := rows([2]int64{5, 10}, [2]int64{8, 30}, [2]int64{2, 50})

	tests := []struct {
		name   string
		rows   []model.WishlistItem
		source int64
		target int64
		want   error
	}{
		{"no source", three, 0, 8, ErrNoSource},
		{"no target", three, 5, 0, ErrUnknownTarget},
		{"unknown target", three, 5, 77, ErrUnknownTarget},
		{"empty rows", nil, 5, 8, ErrUnknownTarget},
		{"overflow", rows([2]int64{1, 10}, [2]int64{2, math.MaxInt64 - 5}), 1, 2, ErrNoInsertionPoint},
	}
	for _, tt := range tests {
		_, err := BeforePosition(tt.rows, tt.source, tt.target)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: got err %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	if v, err := ParseKey("position", " 42 "); err != nil || v != 42 {
		t.Fatalf("ParseKey(42)=%d, %v", v, err)
	}
	if v, err := ParseKey("position", "-3"); err != nil || v != -3 {
		t.Fatalf("ParseKey(-3)=%d, %v", v, err)
	}
	for _, in := range []string{"", "  ", "abc", "1.5", "99999999999999999999"} {
		_, err := ParseKey("position", in)
		if !uierr.IsValidation(err) {
			t.Fatalf("ParseKey(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestGesture(t *testing.T) {
	t.Parallel()

	var g Gesture
	if _, _, ok := g.Drop(3); ok {
		t.Fatalf("expected Drop without Start to report no gesture")
	}

	g.Start(0)
	if g.Active() {
		t.Fatalf("expected Start(0) to be ignored")
	}

	g.Start(5)
	g.Hover(8)
	if !g.Active() || g.Source() != 5 || g.Target() != 8 {
		t.Fatalf("unexpected gesture state: active=%v source=%d target=%d", g.Active(), g.Source(), g.Target())
	}
	src, tgt, ok := g.Drop(2)
	if !ok || src != 5 || tgt != 2 {
		t.Fatalf("Drop=(%d,%d,%v), want (5,2,true)", src, tgt, ok)
	}
	if g.Active() {
		t.Fatalf("expected gesture to end after Drop")
	}

	g.Start(5)
	g.Cancel()
	if g.Active() || g.Source() != 0 {
		t.Fatalf("expected Cancel to reset the gesture")
	}
	g.Hover(9)
	if g.Target() != 0 {
		t.Fatalf("expected Hover to be ignored without an active gesture")
	}
}
