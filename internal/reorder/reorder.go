// Package reorder sends "move item before position P" requests.
//
// A move never touches rendered rows. Its completion is an itemsync.MutationMsg,
// which the event loop hands to itemsync.Controller.Settle: success refetches
// the list, failure only reports.
package reorder

import (
	"context"

	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Mover is the move endpoint.
type Mover interface {
	MoveItem(ctx context.Context, wishlistID, productID, beforePosition int64) error
}

type Client struct {
	api    Mover
	policy drag.Policy
	log    *zap.Logger
	ctx    itemsync.ContextFunc
}

type Option func(*Client)

func WithPolicy(p drag.Policy) Option { return func(c *Client) { c.policy = p } }

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithContext(fn itemsync.ContextFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.ctx = fn
		}
	}
}

func New(api Mover, opts ...Option) *Client {
	c := &Client{
		api:    api,
		policy: drag.DefaultPolicy(),
		log:    zap.NewNop(),
		ctx:    func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Policy() drag.Policy { return c.policy }

// MoveBefore validates raw input and returns the cmd that issues the move.
// Invalid input returns an error and no cmd, so nothing reaches the network.
func (c *Client) MoveBefore(wishlistID int64, productID, beforePosition string) (tea.Cmd, error) {
	pid, err := drag.ParseKey("product id", productID)
	if err != nil {
		return nil, err
	}
	before, err := drag.ParseKey("position", beforePosition)
	if err != nil {
		return nil, err
	}
	if wishlistID == 0 {
		return nil, uierr.Invalid("wishlist id", "value is required")
	}
	return c.move(wishlistID, pid, before), nil
}

// Drop interprets a drop of sourceID onto targetID over rows and returns the
// move cmd.
func (c *Client) Drop(wishlistID int64, rows []model.WishlistItem, sourceID, targetID int64) (tea.Cmd, error) {
	before, err := c.policy.BeforePosition(rows, sourceID, targetID)
	if err != nil {
		return nil, err
	}
	c.log.Debug("drop interpreted",
		zap.Int64("wishlist_id", wishlistID),
		zap.Int64("source", sourceID),
		zap.Int64("target", targetID),
		zap.Int64("before_position", before),
	)
	return c.move(wishlistID, sourceID, before), nil
}

func (c *Client) move(wishlistID, productID, before int64) tea.Cmd {
	api := c.api
	newCtx := c.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		err := api.MoveItem(ctx, wishlistID, productID, before)
		return itemsync.MutationMsg{
			Op:             itemsync.OpMove,
			WishlistID:     wishlistID,
			ProductID:      productID,
			BeforePosition: before,
			Err:            err,
		}
	}
}
