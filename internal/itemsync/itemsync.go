// Package itemsync keeps the rendered item list in step with the service.
//
// Refresh is the only way rendered rows change: every item mutation settles by
// refetching the whole list instead of patching it locally. Each refresh takes
// a per-wishlist token; a response older than the newest token issued for its
// wishlist is dropped, so the last refresh issued is the one that gets shown.
//
// Refresh and Settle return tea.Cmds. The network call runs inside the cmd;
// Apply and Settle must be called from the event loop that owns the view.
package itemsync

import (
	"context"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Service is the subset of the API the controller uses.
type Service interface {
	ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error)
	AddItem(ctx context.Context, wishlistID int64, it model.NewItem) (model.WishlistItem, error)
	UpdateItem(ctx context.Context, wishlistID, productID int64, description string) (model.WishlistItem, error)
	DeleteItem(ctx context.Context, wishlistID, productID int64) error
}

// Renderer is the item panel.
type Renderer interface {
	Render(items []model.WishlistItem)
}

// Selection answers whether a wishlist is still the active one.
type Selection interface {
	IsSelected(id int64) bool
}

// ContextFunc returns the context for one request.
type ContextFunc func() (context.Context, context.CancelFunc)

// RefreshedMsg carries a completed item-list read.
type RefreshedMsg struct {
	WishlistID int64
	Token      uint64
	Items      []model.WishlistItem
	Err        error
}

// Outcome describes what Apply did with a RefreshedMsg.
type Outcome struct {
	Applied bool
	// Dropped is set for stale responses and responses for a wishlist that is
	// no longer selected.
	Dropped bool
	// Message is the error text to show for a failed refresh.
	Message string
}

type Controller struct {
	api  Service
	view Renderer
	sel  Selection
	log  *zap.Logger
	ctx  ContextFunc

	tokens   map[int64]uint64
	inFlight map[int64]int

	items    []model.WishlistItem
	itemsFor int64
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithContext(fn ContextFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.ctx = fn
		}
	}
}

func New(api Service, view Renderer, sel Selection, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		view:     view,
		sel:      sel,
		log:      zap.NewNop(),
		ctx:      func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
		tokens:   map[int64]uint64{},
		inFlight: map[int64]int{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Refresh issues a new token for id and returns the cmd that reads its items.
func (c *Controller) Refresh(id int64) tea.Cmd {
	c.tokens[id]++
	token := c.tokens[id]
	c.inFlight[id]++
	api := c.api
	newCtx := c.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		items, err := api.ListItems(ctx, id)
		return RefreshedMsg{WishlistID: id, Token: token, Items: items, Err: err}
	}
}

// Apply renders a completed refresh, unless it is stale.
func (c *Controller) Apply(msg RefreshedMsg) Outcome {
	if c.inFlight[msg.WishlistID] > 0 {
		c.inFlight[msg.WishlistID]--
	}
	if msg.Token != c.tokens[msg.WishlistID] {
		c.log.Debug("dropping stale item refresh",
			zap.Int64("wishlist_id", msg.WishlistID),
			zap.Uint64("token", msg.Token),
			zap.Uint64("latest", c.tokens[msg.WishlistID]),
		)
		return Outcome{Dropped: true}
	}
	if c.sel != nil && !c.sel.IsSelected(msg.WishlistID) {
		c.log.Debug("dropping item refresh for unselected wishlist", zap.Int64("wishlist_id", msg.WishlistID))
		return Outcome{Dropped: true}
	}
	if msg.Err != nil {
		// Rows stay as they were; the wishlist is still selected.
		c.log.Warn("item refresh failed", zap.Int64("wishlist_id", msg.WishlistID), zap.Error(msg.Err))
		return Outcome{Message: uierr.Message(msg.Err)}
	}
	items := make([]model.WishlistItem, len(msg.Items))
	copy(items, msg.Items)
	c.items = items
	c.itemsFor = msg.WishlistID
	c.view.Render(items)
	return Outcome{Applied: true}
}

// Items returns the last list applied for the selected wishlist, in display
// order. It is empty when nothing is selected or the selection changed since.
func (c *Controller) Items() []model.WishlistItem {
	if c.sel != nil && !c.sel.IsSelected(c.itemsFor) {
		return nil
	}
	out := make([]model.WishlistItem, len(c.items))
	copy(out, c.items)
	return out
}

// Pending reports whether a refresh for id has been issued but not applied.
func (c *Controller) Pending(id int64) bool { return c.inFlight[id] > 0 }

// Forget drops the cached list, e.g. after the selection was cleared.
func (c *Controller) Forget() {
	c.items = nil
	c.itemsFor = 0
}
