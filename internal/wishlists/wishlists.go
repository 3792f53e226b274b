// Package wishlists runs the wishlist record operations (list, search,
// retrieve, create, update, delete) and decides what each outcome does to the
// selection.
//
// Operations return tea.Cmds; Settle is called from the event loop with the
// resulting ResultMsg.
package wishlists

import (
	"context"

	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Service is the wishlist half of the API.
type Service interface {
	ListWishlists(ctx context.Context, q model.Query) ([]model.Wishlist, error)
	CreateWishlist(ctx context.Context, w model.NewWishlist) (model.Wishlist, error)
	GetWishlist(ctx context.Context, id int64) (model.Wishlist, error)
	UpdateWishlist(ctx context.Context, id int64, w model.NewWishlist) (model.Wishlist, error)
	DeleteWishlist(ctx context.Context, id int64) error
}

// Selector is the part of selection.Controller that outcomes drive.
type Selector interface {
	Select(id int64)
	Clear()
	ClearIf(id int64) bool
}

type Op string

const (
	OpList   Op = "list"
	OpSearch Op = "search"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// DeletedMessage is shown after a successful delete.
const DeletedMessage = "Wishlist has been Deleted!"

// ResultMsg is the completion of a wishlist operation.
type ResultMsg struct {
	Op Op
	// ID is the wishlist the operation addressed (get, update, delete).
	ID        int64
	Wishlist  model.Wishlist
	Wishlists []model.Wishlist
	Err       error
}

// Message is the flash text for the outcome.
func (m ResultMsg) Message() string {
	if m.Err != nil {
		return uierr.Message(m.Err)
	}
	if m.Op == OpDelete {
		return DeletedMessage
	}
	return "Success"
}

type Actions struct {
	api Service
	log *zap.Logger
	ctx itemsync.ContextFunc
}

type Option func(*Actions)

func WithLogger(log *zap.Logger) Option {
	return func(a *Actions) {
		if log != nil {
			a.log = log
		}
	}
}

func WithContext(fn itemsync.ContextFunc) Option {
	return func(a *Actions) {
		if fn != nil {
			a.ctx = fn
		}
	}
}

func New(api Service, opts ...Option) *Actions {
	a := &Actions{
		api: api,
		log: zap.NewNop(),
		ctx: func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// List reads every wishlist.
func (a *Actions) List() tea.Cmd {
	return a.list(OpList, model.Query{})
}

// Search reads the wishlists matching q. A zero query lists everything.
func (a *Actions) Search(q model.Query) tea.Cmd {
	return a.list(OpSearch, q)
}

func (a *Actions) list(op Op, q model.Query) tea.Cmd {
	api, newCtx := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		out, err := api.ListWishlists(ctx, q)
		return ResultMsg{Op: op, Wishlists: out, Err: err}
	}
}

func (a *Actions) Get(id int64) tea.Cmd {
	api, newCtx := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		w, err := api.GetWishlist(ctx, id)
		return ResultMsg{Op: OpGet, ID: id, Wishlist: w, Err: err}
	}
}

func (a *Actions) Create(nw model.NewWishlist) tea.Cmd {
	api, newCtx := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		w, err := api.CreateWishlist(ctx, nw)
		return ResultMsg{Op: OpCreate, ID: w.ID, Wishlist: w, Err: err}
	}
}

// Update reads the current record, overlays p and writes the result back.
func (a *Actions) Update(id int64, p model.WishlistPatch) tea.Cmd {
	api, newCtx := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		cur, err := api.GetWishlist(ctx, id)
		if err != nil {
			return ResultMsg{Op: OpUpdate, ID: id, Err: err}
		}
		w, err := api.UpdateWishlist(ctx, id, p.ApplyTo(cur))
		return ResultMsg{Op: OpUpdate, ID: id, Wishlist: w, Err: err}
	}
}

func (a *Actions) Delete(id int64) tea.Cmd {
	api, newCtx := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		err := api.DeleteWishlist(ctx, id)
		return ResultMsg{Op: OpDelete, ID: id, Err: err}
	}
}

// Settle applies the selection transition for msg. It returns the wishlist
// that became selected, if any; the caller refreshes its items.
//
//   - list/search: the first result is selected; no results leave it alone.
//   - get/create/update: the returned wishlist is selected.
//   - a failed get clears the selection.
//   - delete clears the selection when the deleted wishlist was selected.
func (a *Actions) Settle(sel Selector, msg ResultMsg) (selected int64, ok bool) {
	if msg.Err != nil {
		a.log.Warn("wishlist operation failed",
			zap.String("op", string(msg.Op)),
			zap.Int64("wishlist_id", msg.ID),
			zap.Error(msg.Err),
		)
		if msg.Op == OpGet {
			sel.Clear()
		}
		return 0, false
	}
	switch msg.Op {
	case OpList, OpSearch:
		if len(msg.Wishlists) == 0 {
			return 0, false
		}
		id := msg.Wishlists[0].ID
		sel.Select(id)
		return id, true
	case OpGet, OpCreate, OpUpdate:
		sel.Select(msg.Wishlist.ID)
		return msg.Wishlist.ID, true
	case OpDelete:
		sel.ClearIf(msg.ID)
	}
	return 0, false
}
