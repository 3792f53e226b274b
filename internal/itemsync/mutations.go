package itemsync

import (
	"strings"

	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Op names an item mutation.
type Op string

const (
	OpCreate Op = "create"
	OpDelete Op = "delete"
	OpMove   Op = "move"
	OpUpdate Op = "update"
)

func (o Op) successMessage() string {
	switch o {
	case OpCreate:
		return "Item added"
	case OpDelete:
		return "Item deleted"
	case OpMove:
		return "Item moved"
	case OpUpdate:
		return "Item updated"
	default:
		return "Success"
	}
}

// MutationMsg is the completion of an item mutation.
type MutationMsg struct {
	Op         Op
	WishlistID int64
	ProductID  int64
	// BeforePosition is set for moves.
	BeforePosition int64
	Err            error
}

// Settle finishes a mutation. Success returns exactly one Refresh cmd for the
// mutated wishlist; failure returns no cmd and leaves the rows alone. The
// returned text is the message for the user.
func (c *Controller) Settle(msg MutationMsg) (tea.Cmd, string) {
	if msg.Err != nil {
		c.log.Warn("item mutation failed",
			zap.String("op", string(msg.Op)),
			zap.Int64("wishlist_id", msg.WishlistID),
			zap.Int64("product_id", msg.ProductID),
			zap.Error(msg.Err),
		)
		return nil, uierr.Message(msg.Err)
	}
	c.log.Debug("item mutation settled",
		zap.String("op", string(msg.Op)),
		zap.Int64("wishlist_id", msg.WishlistID),
		zap.Int64("product_id", msg.ProductID),
	)
	return c.Refresh(msg.WishlistID), msg.Op.successMessage()
}

// Add validates raw form input and returns the cmd that creates the item.
func (c *Controller) Add(wishlistID int64, productID, description string) (tea.Cmd, error) {
	pid, err := drag.ParseKey("product id", productID)
	if err != nil {
		return nil, err
	}
	it := model.NewItem{ProductID: pid, Description: strings.TrimSpace(description)}
	api := c.api
	newCtx := c.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		_, err := api.AddItem(ctx, wishlistID, it)
		return MutationMsg{Op: OpCreate, WishlistID: wishlistID, ProductID: pid, Err: err}
	}, nil
}

// Edit validates the product id and returns the cmd that replaces the item's
// description.
func (c *Controller) Edit(wishlistID int64, productID, description string) (tea.Cmd, error) {
	pid, err := drag.ParseKey("product id", productID)
	if err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(description)
	api := c.api
	newCtx := c.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		_, err := api.UpdateItem(ctx, wishlistID, pid, desc)
		return MutationMsg{Op: OpUpdate, WishlistID: wishlistID, ProductID: pid, Err: err}
	}, nil
}

// Remove returns the cmd that deletes productID from the wishlist.
func (c *Controller) Remove(wishlistID, productID int64) tea.Cmd {
	api := c.api
	newCtx := c.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		err := api.DeleteItem(ctx, wishlistID, productID)
		return MutationMsg{Op: OpDelete, WishlistID: wishlistID, ProductID: productID, Err: err}
	}
}
