package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/itemview"
	"wishlist-cli/internal/reorder"
	"wishlist-cli/internal/selection"
	"wishlist-cli/internal/store"
	"wishlist-cli/internal/uierr"
	"wishlist-cli/internal/wishlists"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session wires the same controllers the TUI uses for one command. Cmds run
// synchronously and their messages go through the same Settle/Apply paths.
// The selection is restored from and saved to the local state database.
type session struct {
	app  *App
	cmd  *cobra.Command
	view *itemview.View
	sel  *selection.Controller

	records *wishlists.Actions
	items   *itemsync.Controller
	moves   *reorder.Client

	quiet bool
}

func newSession(cmd *cobra.Command, app *App) (*session, error) {
	s := &session{app: app, cmd: cmd, view: itemview.New()}
	ctxFn := app.requestContext(cmd)

	s.sel = selection.New(s.view, selection.WithObserver(s.persist))
	s.records = wishlists.New(app.api, wishlists.WithLogger(app.log), wishlists.WithContext(ctxFn))
	s.items = itemsync.New(app.api, s.view, s.sel, itemsync.WithLogger(app.log), itemsync.WithContext(ctxFn))
	s.moves = reorder.New(app.api,
		reorder.WithPolicy(drag.Policy{TailGap: app.cfg.TailGap}),
		reorder.WithLogger(app.log),
		reorder.WithContext(ctxFn),
	)

	id, ok, err := app.state.LoadSelection(s.ctx())
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	if ok {
		s.selectQuietly(id)
	}
	return s, nil
}

func (s *session) ctx() context.Context {
	if c := s.cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

func (s *session) persist(st selection.State) {
	if s.quiet {
		return
	}
	if err := s.app.state.SaveSelection(s.ctx(), st.WishlistID, st.Selected); err != nil {
		s.app.log.Warn("save selection", zap.Error(err))
	}
}

// selectQuietly selects id for this command without saving it.
func (s *session) selectQuietly(id int64) {
	s.quiet = true
	s.sel.Select(id)
	s.quiet = false
}

// wishlistFor resolves --wishlist or the persisted selection. An explicit
// --wishlist applies to this command only; item commands never change the
// saved selection.
func (s *session) wishlistFor(flag string) (int64, error) {
	if strings.TrimSpace(flag) != "" {
		id, err := wishlists.ParseID(flag)
		if err != nil {
			return 0, err
		}
		s.selectQuietly(id)
		return id, nil
	}
	return s.sel.RequireSelection()
}

// runRecord runs a wishlist operation and settles it. When the outcome
// selects a wishlist its items are refreshed too.
func (s *session) runRecord(c tea.Cmd) (wishlists.ResultMsg, error) {
	msg := c().(wishlists.ResultMsg)
	s.record(string(msg.Op), msg.ID, 0, msg.Err)
	id, selected := s.records.Settle(s.sel, msg)
	if msg.Err != nil {
		return msg, msg.Err
	}
	if selected {
		// The record call already succeeded; a failed item read only leaves
		// the panel empty.
		_ = s.refresh(id)
	}
	return msg, nil
}

// refresh runs one item refresh for id and applies it.
func (s *session) refresh(id int64) error {
	msg := s.items.Refresh(id)().(itemsync.RefreshedMsg)
	out := s.items.Apply(msg)
	if msg.Err != nil && out.Message != "" {
		return msg.Err
	}
	return nil
}

// runMutation runs an item mutation, settles it, and runs the resulting
// refresh. It returns the settle message.
func (s *session) runMutation(c tea.Cmd) (string, error) {
	msg := c().(itemsync.MutationMsg)
	s.record(string(msg.Op), msg.WishlistID, msg.ProductID, msg.Err)
	next, text := s.items.Settle(msg)
	if msg.Err != nil {
		return text, msg.Err
	}
	if next != nil {
		res := next().(itemsync.RefreshedMsg)
		if out := s.items.Apply(res); out.Message != "" {
			return text, res.Err
		}
	}
	return text, nil
}

func (s *session) record(op string, wishlistID, productID int64, err error) {
	a := store.Activity{
		At:         time.Now().UTC(),
		Op:         op,
		WishlistID: wishlistID,
		ProductID:  productID,
		OK:         err == nil,
	}
	if err != nil {
		a.Message = uierr.Message(err)
	}
	if e := s.app.state.AppendActivity(s.ctx(), a); e != nil {
		s.app.log.Warn("append activity", zap.Error(e))
	}
}
