package reorder

import (
	"context"
	"errors"
	"testing"

	"wishlist-cli/internal/apiclient"
	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"
)

type moveCall struct {
	wishlist, product, before int64
}

type fakeMover struct {
	calls []moveCall
	err   error
}

func (f *fakeMover) MoveItem(_ context.Context, wid, pid, before int64) error {
	f.calls = append(f.calls, moveCall{wid, pid, before})
	return f.err
}

func TestMoveBefore_InvalidInputSendsNothing(t *testing.T) {
	t.Parallel()

	api := &fakeMover{}
	c := New(api)

	tests := []struct {
		wishlist      int64
		pid, position string
	}{
		{1, "", "10"},
		{1, "x", "10"},
		{1, "5", ""},
		{1, "5", "ten"},
		{0, "5", "10"},
	}
	for _, tt := range tests {
		cmd, err := c.MoveBefore(tt.wishlist, tt.pid, tt.position)
		if cmd != nil || !uierr.IsValidation(err) {
			t.Fatalf("MoveBefore(%d, %q, %q)=(%v, %v), want validation error and no cmd", tt.wishlist, tt.pid, tt.position, cmd, err)
		}
	}
	if len(api.calls) != 0 {
		t.Fatalf("invalid input reached the service: %+v", api.calls)
	}
}

func TestMoveBefore_Success(t *testing.T) {
	t.Parallel()

	api := &fakeMover{}
	c := New(api)

	cmd, err := c.MoveBefore(7, " 5 ", "30")
	if err != nil {
		t.Fatalf("MoveBefore: %v", err)
	}
	msg, ok := cmd().(itemsync.MutationMsg)
	if !ok {
		t.Fatalf("expected itemsync.MutationMsg")
	}
	if msg.Op != itemsync.OpMove || msg.WishlistID != 7 || msg.ProductID != 5 || msg.BeforePosition != 30 || msg.Err != nil {
		t.Fatalf("unexpected msg %+v", msg)
	}
	if len(api.calls) != 1 || api.calls[0] != (moveCall{7, 5, 30}) {
		t.Fatalf("unexpected calls %+v", api.calls)
	}
}

func TestDrop_UsesPolicy(t *testing.T) {
	t.Parallel()

	rows := []model.WishlistItem{{ProductID: 5, Position: 10}, {ProductID: 8, Position: 30}, {ProductID: 2, Position: 50}}

	api := &fakeMover{}
	c := New(api)
	cmd, err := c.Drop(1, rows, 5, 8)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	cmd()
	cmd, err = c.Drop(1, rows, 2, 8)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	cmd()

	gap := New(api, WithPolicy(drag.Policy{TailGap: 5}))
	cmd, err = gap.Drop(1, rows, 5, 2)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	cmd()

	want := []moveCall{{1, 5, 50}, {1, 2, 30}, {1, 5, 55}}
	if len(api.calls) != len(want) {
		t.Fatalf("calls=%+v, want %+v", api.calls, want)
	}
	for i := range want {
		if api.calls[i] != want[i] {
			t.Fatalf("calls=%+v, want %+v", api.calls, want)
		}
	}

	if _, err := c.Drop(1, rows, 5, 99); !errors.Is(err, drag.ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestMove_SettlesIntoOneRefresh(t *testing.T) {
	t.Parallel()

	items := &stubItems{}
	ctl := itemsync.New(items, renderer{}, selected(1))

	api := &fakeMover{}
	cmd, _ := New(api).MoveBefore(1, "5", "30")
	next, text := ctl.Settle(cmd().(itemsync.MutationMsg))
	if next == nil || text != "Item moved" {
		t.Fatalf("Settle=(%v, %q)", next, text)
	}
	if _, ok := next().(itemsync.RefreshedMsg); !ok || items.lists != 1 {
		t.Fatalf("expected a single refresh, lists=%d", items.lists)
	}

	api.err = &apiclient.ServiceError{StatusCode: 400, Message: "item with product_id 5 not found in wishlist 1"}
	cmd, _ = New(api).MoveBefore(1, "5", "30")
	next, text = ctl.Settle(cmd().(itemsync.MutationMsg))
	if next != nil {
		t.Fatalf("failed move must not refresh")
	}
	if text != "item with product_id 5 not found in wishlist 1" {
		t.Fatalf("text=%q", text)
	}
}

type stubItems struct{ lists int }

func (s *stubItems) ListItems(context.Context, int64) ([]model.WishlistItem, error) {
	s.lists++
	return nil, nil
}

func (s *stubItems) AddItem(context.Context, int64, model.NewItem) (model.WishlistItem, error) {
	return model.WishlistItem{}, nil
}

func (s *stubItems) UpdateItem(context.Context, int64, int64, string) (model.WishlistItem, error) {
	return model.WishlistItem{}, nil
}

func (s *stubItems) DeleteItem(context.Context, int64, int64) error { return nil }

type renderer struct{}

func (renderer) Render([]model.WishlistItem) {}

type selected int64

func (s selected) IsSelected(id int64) bool { return int64(s) == id }
