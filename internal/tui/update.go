package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/store"
	"wishlist-cli/internal/uierr"
	"wishlist-cli/internal/wishlists"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case browseMsg:
		m.done()
		if msg.res.Err != nil {
			return m, m.flashError(msg.res.Err)
		}
		m.setWishlists(msg.res.Wishlists)
		return m, nil

	case wishlists.ResultMsg:
		return m.settleRecord(msg)

	case itemsync.RefreshedMsg:
		m.done()
		out := m.items.Apply(msg)
		if out.Message != "" {
			return m, m.showError(out.Message)
		}
		if out.Applied && m.gesture.Active() {
			// The dragged row may be gone after a refresh.
			if _, ok := m.panel.RowByProduct(m.gesture.Source()); !ok {
				m.cancelDrag()
			}
		}
		return m, nil

	case itemsync.MutationMsg:
		m.done()
		record := m.recordActivity(string(msg.Op), msg.WishlistID, msg.ProductID, msg.Err)
		next, text := m.items.Settle(msg)
		if msg.Err != nil {
			return m, tea.Batch(record, m.showError(text))
		}
		if msg.Op == itemsync.OpMove || msg.Op == itemsync.OpUpdate {
			m.panel.SetCursorTo(msg.ProductID)
		}
		return m, tea.Batch(record, m.showMinibuffer(text), m.track(next))

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.pmode != promptNone {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) resize() {
	leftW, bodyH := m.layout()
	m.list.SetSize(leftW-paneChromeW, bodyH)
	m.prompt.Width = m.width - len(m.pmode.label()) - 2
	m.help.Width = m.width
}

// track counts cmd as an in-flight request and starts the spinner if it was idle.
func (m *appModel) track(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *appModel) done() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferErr = false
	m.minibufferSetAt = time.Now()
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) showError(text string) tea.Cmd {
	cmd := m.showMinibuffer(text)
	m.minibufferErr = true
	return cmd
}

func (m *appModel) flashError(err error) tea.Cmd {
	return m.showError(uierr.Message(err))
}

// recordActivity returns the cmd that appends one outcome to the activity log.
func (m *appModel) recordActivity(op string, wishlistID, productID int64, err error) tea.Cmd {
	a := store.Activity{At: time.Now().UTC(), Op: op, WishlistID: wishlistID, ProductID: productID, OK: err == nil}
	if err != nil {
		a.Message = uierr.Message(err)
	}
	db, log := m.state, m.log
	return func() tea.Msg {
		if e := db.AppendActivity(context.Background(), a); e != nil {
			log.Warn("append activity", zap.Error(e))
		}
		return nil
	}
}

// settleRecord applies a wishlist operation: selection first, then the
// wishlist pane, then the item refresh for a newly selected wishlist.
func (m appModel) settleRecord(msg wishlists.ResultMsg) (tea.Model, tea.Cmd) {
	m.done()
	record := m.recordActivity(string(msg.Op), msg.ID, 0, msg.Err)

	id, selected := m.records.Settle(m.sel, msg)

	if msg.Err == nil {
		switch msg.Op {
		case wishlists.OpList, wishlists.OpSearch:
			m.setWishlists(msg.Wishlists)
		case wishlists.OpGet, wishlists.OpCreate, wishlists.OpUpdate:
			m.upsertWishlist(msg.Wishlist)
		case wishlists.OpDelete:
			m.removeWishlist(msg.ID)
		}
	}

	cmds := []tea.Cmd{record}
	if msg.Err != nil {
		cmds = append(cmds, m.flashError(msg.Err))
	} else {
		cmds = append(cmds, m.showMinibuffer(msg.Message()))
	}

	if cur, ok := m.sel.Current(); !ok {
		m.current = model.Wishlist{}
		m.items.Forget()
		m.cancelDrag()
	} else if selected {
		m.current = m.lookupWishlist(cur, msg)
		m.cancelDrag()
		cmds = append(cmds, m.track(m.items.Refresh(id)))
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) lookupWishlist(id int64, msg wishlists.ResultMsg) model.Wishlist {
	if msg.Wishlist.ID == id {
		return msg.Wishlist
	}
	for _, w := range msg.Wishlists {
		if w.ID == id {
			return w
		}
	}
	return model.Wishlist{ID: id}
}

func (m *appModel) setWishlists(ws []model.Wishlist) {
	items := make([]list.Item, 0, len(ws))
	for _, w := range ws {
		items = append(items, wishlistItem{w: w})
	}
	m.list.SetItems(items)
	m.list.Select(0)
}

func (m *appModel) upsertWishlist(w model.Wishlist) {
	for i, it := range m.list.Items() {
		if wi, ok := it.(wishlistItem); ok && wi.w.ID == w.ID {
			m.list.SetItem(i, wishlistItem{w: w})
			m.list.Select(i)
			return
		}
	}
	m.list.InsertItem(len(m.list.Items()), wishlistItem{w: w})
	m.list.Select(len(m.list.Items()) - 1)
}

func (m *appModel) removeWishlist(id int64) {
	for i, it := range m.list.Items() {
		if wi, ok := it.(wishlistItem); ok && wi.w.ID == id {
			m.list.RemoveItem(i)
			return
		}
	}
}

func (m *appModel) highlightedWishlist() (model.Wishlist, bool) {
	wi, ok := m.list.SelectedItem().(wishlistItem)
	if !ok {
		return model.Wishlist{}, false
	}
	return wi.w, true
}

// targetWishlist is the wishlist a record action applies to: the highlighted
// row in the wishlist pane, otherwise the selection.
func (m *appModel) targetWishlist() (int64, error) {
	if m.focus == paneWishlists {
		if w, ok := m.highlightedWishlist(); ok {
			return w.ID, nil
		}
	}
	return m.sel.RequireSelection()
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneWishlists {
			m.focus = paneItems
		} else {
			m.focus = paneWishlists
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.gesture.Active() {
			m.cancelDrag()
			return m, m.showMinibuffer("Move cancelled")
		}
		return m, nil
	case key.Matches(msg, m.keys.ListAll):
		return m, m.track(m.records.List())
	case key.Matches(msg, m.keys.Search):
		return m.openPrompt(promptSearch, "")
	case key.Matches(msg, m.keys.Create):
		return m.openPrompt(promptCreate, "")
	case key.Matches(msg, m.keys.Update):
		if _, err := m.targetWishlist(); err != nil {
			return m, m.flashError(err)
		}
		return m.openPrompt(promptUpdate, "")
	case key.Matches(msg, m.keys.Clear):
		m.sel.Clear()
		m.items.Forget()
		m.current = model.Wishlist{}
		m.cancelDrag()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		id, err := m.targetWishlist()
		if err != nil {
			return m, m.flashError(err)
		}
		return m, m.track(m.records.Delete(id))
	case key.Matches(msg, m.keys.Refresh):
		id, err := m.sel.RequireSelection()
		if err != nil {
			return m, m.flashError(err)
		}
		return m, m.track(m.items.Refresh(id))
	}

	if m.focus == paneWishlists {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.list.CursorUp()
		case key.Matches(msg, m.keys.Down):
			m.list.CursorDown()
		case key.Matches(msg, m.keys.Retrieve):
			w, ok := m.highlightedWishlist()
			if !ok {
				return m, nil
			}
			return m, m.track(m.records.Get(w.ID))
		case key.Matches(msg, m.keys.AddItem):
			return m.openItemPrompt(promptAddItem)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.panel.MoveCursor(-1)
		m.hoverCursor()
	case key.Matches(msg, m.keys.Down):
		m.panel.MoveCursor(1)
		m.hoverCursor()
	case key.Matches(msg, m.keys.AddItem):
		return m.openItemPrompt(promptAddItem)
	case key.Matches(msg, m.keys.MoveTo):
		return m.openItemPrompt(promptMoveTo)
	case key.Matches(msg, m.keys.EditItem):
		return m.openItemPrompt(promptEditItem)
	case key.Matches(msg, m.keys.DeleteItem):
		id, err := m.sel.RequireSelection()
		if err != nil {
			return m, m.flashError(err)
		}
		row, ok := m.panel.Cursor()
		if !ok {
			return m, m.showError("No item selected")
		}
		return m, m.track(m.items.Remove(id, row.ProductID))
	case key.Matches(msg, m.keys.Move):
		return m.keyboardDrag()
	}
	return m, nil
}

// keyboardDrag picks up the row under the cursor, or drops the picked-up row
// onto it.
func (m appModel) keyboardDrag() (tea.Model, tea.Cmd) {
	if _, err := m.sel.RequireSelection(); err != nil {
		return m, m.flashError(err)
	}
	row, ok := m.panel.Cursor()
	if !m.gesture.Active() {
		if !ok {
			return m, m.showError("No item selected")
		}
		m.gesture.Start(row.ProductID)
		m.panel.SetDrag(row.ProductID, 0)
		return m, m.showMinibuffer("Moving " + strconv.FormatInt(row.ProductID, 10) + ": choose a row and press m (esc cancels)")
	}
	var target int64
	if ok {
		target = row.ProductID
	}
	return m.drop(target)
}

func (m *appModel) hoverCursor() {
	if !m.gesture.Active() {
		return
	}
	var target int64
	if row, ok := m.panel.Cursor(); ok {
		target = row.ProductID
	}
	m.gesture.Hover(target)
	m.panel.SetDrag(m.gesture.Source(), target)
}

// drop finishes the gesture on target. Dropping a row onto itself is treated
// as a cancelled drag.
func (m appModel) drop(target int64) (tea.Model, tea.Cmd) {
	source, target, ok := m.gesture.Drop(target)
	m.panel.SetDrag(0, 0)
	if !ok || target == 0 {
		return m, nil
	}
	if source == target {
		m.panel.SetCursorTo(source)
		return m, nil
	}
	id, err := m.sel.RequireSelection()
	if err != nil {
		return m, m.flashError(err)
	}
	cmd, err := m.moves.Drop(id, m.items.Items(), source, target)
	if err != nil {
		return m, m.flashError(err)
	}
	return m, m.track(cmd)
}

func (m *appModel) cancelDrag() {
	m.gesture.Cancel()
	m.panel.SetDrag(0, 0)
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	line, inPanel := m.itemPanelLine(msg.X, msg.Y)
	var pid int64
	if inPanel {
		if row, ok := m.panel.RowAt(line); ok {
			pid = row.ProductID
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if inPanel {
			m.focus = paneItems
		}
		if pid == 0 || !m.panel.Enabled() {
			return m, nil
		}
		m.panel.SetCursorTo(pid)
		m.gesture.Start(pid)
		m.panel.SetDrag(pid, 0)
		return m, nil
	case tea.MouseActionMotion:
		if m.gesture.Active() {
			m.gesture.Hover(pid)
			m.panel.SetDrag(m.gesture.Source(), pid)
		}
		return m, nil
	case tea.MouseActionRelease:
		if !m.gesture.Active() {
			return m, nil
		}
		return m.drop(pid)
	}
	return m, nil
}

func (m appModel) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.pmode = kind
	m.prompt.Prompt = kind.label()
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.resize()
	return m, m.prompt.Focus()
}

func (m appModel) openItemPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	if _, err := m.sel.RequireSelection(); err != nil {
		return m, m.flashError(err)
	}
	var value string
	if kind == promptMoveTo || kind == promptEditItem {
		row, ok := m.panel.Cursor()
		if !ok {
			return m, m.showError("No item selected")
		}
		if kind == promptEditItem {
			value = row.Description
		}
	}
	return m.openPrompt(kind, value)
}

func (m *appModel) closePrompt() {
	m.pmode = promptNone
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		kind := m.pmode
		input := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		cmd, err := m.submitPrompt(kind, input)
		if err != nil {
			return m, m.flashError(err)
		}
		return m, m.track(cmd)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// submitPrompt validates the input and returns the request cmd. Nothing is
// sent when validation fails.
func (m *appModel) submitPrompt(kind promptKind, input string) (tea.Cmd, error) {
	if kind == promptMoveTo {
		id, err := m.sel.RequireSelection()
		if err != nil {
			return nil, err
		}
		row, ok := m.panel.Cursor()
		if !ok {
			return nil, drag.ErrNoSource
		}
		return m.moves.MoveBefore(id, strconv.FormatInt(row.ProductID, 10), input)
	}
	if kind == promptEditItem {
		// The whole input is the description.
		id, err := m.sel.RequireSelection()
		if err != nil {
			return nil, err
		}
		row, ok := m.panel.Cursor()
		if !ok {
			return nil, drag.ErrNoSource
		}
		return m.items.Edit(id, strconv.FormatInt(row.ProductID, 10), input)
	}

	fields, err := parsePrompt(input)
	if err != nil {
		return nil, err
	}
	switch kind {
	case promptSearch:
		q, err := fields.Query()
		if err != nil {
			return nil, err
		}
		return m.records.Search(q), nil
	case promptCreate:
		nw, err := fields.NewWishlist()
		if err != nil {
			return nil, err
		}
		return m.records.Create(nw), nil
	case promptUpdate:
		id, err := m.targetWishlist()
		if err != nil {
			return nil, err
		}
		p, err := fields.Patch()
		if err != nil {
			return nil, err
		}
		return m.records.Update(id, p), nil
	case promptAddItem:
		id, err := m.sel.RequireSelection()
		if err != nil {
			return nil, err
		}
		return m.items.Add(id, fields["product_id"], fields["description"])
	}
	return nil, nil
}
