package tui

import (
	"reflect"
	"testing"

	"wishlist-cli/internal/uierr"
	"wishlist-cli/internal/wishlists"
)

func TestSplitShellWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"name=Birthday", []string{"name=Birthday"}},
		{"customer_id=3 name=Birthday", []string{"customer_id=3", "name=Birthday"}},
		{"name='Birthday party'", []string{"name=Birthday party"}},
		{"description=\"for the \\\"big\\\" day\"", []string{"description=for the \"big\" day"}},
		{"name=Birthday\\ party", []string{"name=Birthday party"}},
	}

	for _, tt := range tests {
		if got := splitShellWords(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("splitShellWords(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePrompt(t *testing.T) {
	t.Parallel()

	got, err := parsePrompt(`customer-id=3 name="Birthday party" description=`)
	if err != nil {
		t.Fatalf("parsePrompt: %v", err)
	}
	want := wishlists.Fields{"customer_id": "3", "name": "Birthday party", "description": ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parsePrompt=%v, want %v", got, want)
	}

	for _, in := range []string{"Birthday", "colour=red", "=x"} {
		if _, err := parsePrompt(in); !uierr.IsValidation(err) {
			t.Fatalf("parsePrompt(%q) err=%v, want validation error", in, err)
		}
	}
}
