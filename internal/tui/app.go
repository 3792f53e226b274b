package tui

import (
	"context"
	"time"

	"wishlist-cli/internal/drag"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/itemview"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/reorder"
	"wishlist-cli/internal/selection"
	"wishlist-cli/internal/store"
	"wishlist-cli/internal/wishlists"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type pane int

const (
	paneWishlists pane = iota
	paneItems
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptCreate
	promptUpdate
	promptAddItem
	promptMoveTo
	promptEditItem
)

func (k promptKind) label() string {
	switch k {
	case promptSearch:
		return "Search (customer_id= name= category=): "
	case promptCreate:
		return "New wishlist (customer_id= name= description= category=): "
	case promptUpdate:
		return "Update (customer_id= name= description= category=): "
	case promptAddItem:
		return "Add item (product_id= description=): "
	case promptMoveTo:
		return "Move before position: "
	case promptEditItem:
		return "Description: "
	default:
		return ""
	}
}

const minibufferAutoClearAfter = 4 * time.Second

type flashDoneMsg struct{ seq int }

// browseMsg fills the wishlist pane without touching the selection (startup
// with a restored selection).
type browseMsg struct{ res wishlists.ResultMsg }

type appModel struct {
	log *zap.Logger
	// state stays open for the life of the program; Run closes it.
	state *store.DB

	panel   *itemview.View
	sel     *selection.Controller
	records *wishlists.Actions
	items   *itemsync.Controller
	moves   *reorder.Client
	gesture *drag.Gesture

	// current is the selected wishlist's record, for the detail header.
	current model.Wishlist

	restoreID int64
	restore   bool

	list    list.Model
	focus   pane
	prompt  textinput.Model
	pmode   promptKind
	spinner spinner.Model
	pending int
	keys    keyMap
	help    help.Model

	width  int
	height int

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time
	flashSeq        int
}

func newAppModel(deps Deps, ctxFn itemsync.ContextFunc) appModel {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if ctxFn == nil {
		ctxFn = func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }
	}

	db, err := deps.State.Open(context.Background())
	if err != nil {
		log.Warn("open state", zap.Error(err))
		db = &store.DB{}
	}

	m := appModel{
		log:     log,
		state:   db,
		panel:   itemview.New().WithStyles(itemPanelStyles()),
		gesture: &drag.Gesture{},
		keys:    defaultKeyMap(),
		help:    help.New(),
	}

	m.sel = selection.New(m.panel, selection.WithObserver(func(st selection.State) {
		if err := db.SaveSelection(context.Background(), st.WishlistID, st.Selected); err != nil {
			log.Warn("save selection", zap.Error(err))
		}
	}))
	m.records = wishlists.New(deps.API, wishlists.WithLogger(log), wishlists.WithContext(ctxFn))
	m.items = itemsync.New(deps.API, m.panel, m.sel, itemsync.WithLogger(log), itemsync.WithContext(ctxFn))
	policy := drag.DefaultPolicy()
	if deps.TailGap > 0 {
		policy.TailGap = deps.TailGap
	}
	m.moves = reorder.New(deps.API, reorder.WithPolicy(policy), reorder.WithLogger(log), reorder.WithContext(ctxFn))

	sel := m.sel
	l := list.New(nil, newCompactItemDelegate(sel.IsSelected), 30, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	m.list = l

	ti := textinput.New()
	ti.CharLimit = 512
	m.prompt = ti

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	id, ok, err := db.LoadSelection(context.Background())
	if err != nil {
		log.Warn("load selection", zap.Error(err))
	}
	m.restoreID, m.restore = id, ok
	m.pending = 1
	if ok {
		m.pending = 2
	}
	return m
}

// Init restores the saved selection by retrieving it (success selects,
// failure clears). Without one, it lists everything, which selects the first
// wishlist.
func (m appModel) Init() tea.Cmd {
	if !m.restore {
		return tea.Batch(m.spinner.Tick, m.records.List())
	}
	browse := m.records.List()
	return tea.Batch(
		m.spinner.Tick,
		m.records.Get(m.restoreID),
		func() tea.Msg { return browseMsg{res: browse().(wishlists.ResultMsg)} },
	)
}
