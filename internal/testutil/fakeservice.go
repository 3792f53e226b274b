// Package testutil provides an in-memory wishlist service for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"wishlist-cli/internal/model"

	"github.com/go-chi/chi/v5"
)

// PositionStep is the gap the service leaves between renumbered items.
const PositionStep = 1000

// Request is one request the fake received.
type Request struct {
	Method    string
	Path      string
	Query     string
	Body      string
	RequestID string
}

type failure struct {
	status  int
	message string
}

// FakeService is an in-memory implementation of the wishlist REST service.
type FakeService struct {
	mu        sync.Mutex
	nextID    int64
	wishlists map[int64]*model.Wishlist
	items     map[int64][]model.WishlistItem // wishlistID -> items by position
	requests  []Request
	failures  map[string]failure // "METHOD path" -> injected failure
	today     string
}

func NewFakeService() *FakeService {
	return &FakeService{
		nextID:    1,
		wishlists: map[int64]*model.Wishlist{},
		items:     map[int64][]model.WishlistItem{},
		failures:  map[string]failure{},
		today:     time.Now().UTC().Format("2006-01-02"),
	}
}

// NewServer starts the fake behind httptest and closes it when t ends.
func NewServer(t testing.TB) (*FakeService, *httptest.Server) {
	t.Helper()
	fs := NewFakeService()
	srv := httptest.NewServer(fs.Handler())
	t.Cleanup(srv.Close)
	return fs, srv
}

// AddWishlist seeds a wishlist and returns its id.
func (f *FakeService) AddWishlist(w model.NewWishlist) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createLocked(w).ID
}

// AddItem seeds an item at an explicit position.
func (f *FakeService) AddItem(wishlistID, productID, position int64, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[wishlistID] = append(f.items[wishlistID], model.WishlistItem{
		WishlistID:  wishlistID,
		ProductID:   productID,
		Description: description,
		Position:    position,
	})
	sortItems(f.items[wishlistID])
}

// Items returns a copy of the stored items in position order.
func (f *FakeService) Items(wishlistID int64) []model.WishlistItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.WishlistItem, len(f.items[wishlistID]))
	copy(out, f.items[wishlistID])
	return out
}

// FailWith makes every request for method and exact path fail with status.
// An empty message sends an error body without a message field.
func (f *FakeService) FailWith(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, message: message}
}

// ClearFailures removes every injected failure.
func (f *FakeService) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]failure{}
}

// Requests returns the requests received so far.
func (f *FakeService) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// CountRequests counts received requests with the given method and path.
func (f *FakeService) CountRequests(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeService) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)
	r.Use(f.inject)

	r.Route("/wishlists", func(r chi.Router) {
		r.Get("/", f.listWishlists)
		r.Post("/", f.createWishlist)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", f.getWishlist)
			r.Put("/", f.updateWishlist)
			r.Delete("/", f.deleteWishlist)
			r.Get("/items", f.listItems)
			r.Post("/items", f.createItem)
			r.Get("/items/{pid}", f.getItem)
			r.Put("/items/{pid}", f.updateItem)
			r.Delete("/items/{pid}", f.deleteItem)
			r.Patch("/items/{pid}", f.moveItem)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

func (f *FakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeService) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail, ok := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if fail.message == "" {
			writeJSON(w, fail.status, map[string]string{"error": http.StatusText(fail.status)})
			return
		}
		writeError(w, fail.status, fail.message)
	})
}

func (f *FakeService) listWishlists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var customerID *int64
	if raw := strings.TrimSpace(q.Get("customer_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "customer_id must be an integer")
			return
		}
		customerID = &id
	}
	name := strings.ToLower(strings.TrimSpace(q.Get("name")))
	category := strings.TrimSpace(q.Get("category"))

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Wishlist{}
	for _, wl := range f.wishlists {
		if customerID != nil && wl.CustomerID != *customerID {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(wl.Name), name) {
			continue
		}
		if category != "" && !strings.EqualFold(wl.Category, category) {
			continue
		}
		out = append(out, f.withItemsLocked(wl))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeService) createWishlist(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	nw, ok := decodeWishlist(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wl := f.createLocked(nw)
	w.Header().Set("Location", fmt.Sprintf("/wishlists/%d", wl.ID))
	writeJSON(w, http.StatusCreated, f.withItemsLocked(wl))
}

func (f *FakeService) getWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wl, ok := f.wishlists[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' was not found.", id))
		return
	}
	writeJSON(w, http.StatusOK, f.withItemsLocked(wl))
}

func (f *FakeService) updateWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	nw, ok := decodeWishlist(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wl, ok := f.wishlists[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' was not found.", id))
		return
	}
	wl.CustomerID = nw.CustomerID
	wl.Name = nw.Name
	wl.Description = nw.Description
	wl.Category = nw.Category
	wl.UpdatedDate = f.today
	writeJSON(w, http.StatusOK, f.withItemsLocked(wl))
}

func (f *FakeService) deleteWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	delete(f.wishlists, id)
	delete(f.items, id)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeService) listItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wishlists[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' could not be found.", id))
		return
	}
	out := make([]model.WishlistItem, len(f.items[id]))
	copy(out, f.items[id])
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeService) createItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var body struct {
		ProductID   *int64 `json:"product_id"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid type: "+err.Error())
		return
	}
	if body.ProductID == nil {
		writeError(w, http.StatusBadRequest, "Missing key: product_id")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wishlists[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' could not be found.", id))
		return
	}
	items := f.items[id]
	for _, it := range items {
		if it.ProductID == *body.ProductID {
			writeError(w, http.StatusConflict, fmt.Sprintf("Product %d is already in wishlist %d", it.ProductID, id))
			return
		}
	}
	pos := int64(PositionStep)
	if n := len(items); n > 0 {
		pos = items[n-1].Position + PositionStep
	}
	it := model.WishlistItem{WishlistID: id, ProductID: *body.ProductID, Description: body.Description, Position: pos}
	f.items[id] = append(items, it)
	w.Header().Set("Location", fmt.Sprintf("/wishlists/%d/items/%d", id, it.ProductID))
	writeJSON(w, http.StatusCreated, it)
}

func (f *FakeService) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pid, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wishlists[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' could not be found.", id))
		return
	}
	for _, it := range f.items[id] {
		if it.ProductID == pid {
			writeJSON(w, http.StatusOK, it)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist item with product id '%d' could not be found.", pid))
}

func (f *FakeService) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pid, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid type: "+err.Error())
		return
	}
	if _, ok := body["product_id"]; !ok {
		writeError(w, http.StatusBadRequest, "Missing key: product_id")
		return
	}
	desc, _ := body["description"].(string)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wishlists[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' was not found.", id))
		return
	}
	items := f.items[id]
	for i := range items {
		if items[i].ProductID == pid {
			items[i].Description = desc
			writeJSON(w, http.StatusOK, items[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist item with id '%d' could not be found.", pid))
}

func (f *FakeService) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pid, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	f.mu.Lock()
	items := f.items[id]
	for i, it := range items {
		if it.ProductID == pid {
			f.items[id] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeService) moveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pid, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var body struct {
		BeforePosition *int64 `json:"before_position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.BeforePosition == nil {
		writeError(w, http.StatusBadRequest, "Missing key: before_position")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wishlists[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' could not be found.", id))
		return
	}
	moved, err := moveBefore(f.items[id], pid, *body.BeforePosition)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s in wishlist %d", err.Error(), id))
		return
	}
	sortItems(f.items[id])
	writeJSON(w, http.StatusOK, moved)
}

// moveBefore places productID ahead of the first other item whose position is
// >= before, or at the end when there is none. Positions are renumbered in
// PositionStep increments when there is no integer gap left.
func moveBefore(items []model.WishlistItem, productID, before int64) (model.WishlistItem, error) {
	if len(items) == 0 {
		return model.WishlistItem{}, fmt.Errorf("no items")
	}
	if len(items) == 1 {
		return items[0], nil
	}
	for attempt := 0; attempt < 2; attempt++ {
		moving := -1
		target := -1
		for i, it := range items {
			if it.ProductID == productID {
				moving = i
				continue
			}
			if target < 0 && it.Position >= before {
				target = i
			}
		}
		if moving < 0 {
			return model.WishlistItem{}, fmt.Errorf("item with product_id %d not found", productID)
		}

		var pos, prev int64
		hasPrev := false
		switch {
		case target < 0:
			pos = items[len(items)-1].Position + PositionStep
		case target == 0:
			pos = items[0].Position / 2
		default:
			prev = items[target-1].Position
			hasPrev = true
			pos = (items[target].Position + prev) / 2
		}
		if target >= 0 && (pos <= 0 || pos == items[target].Position || (hasPrev && pos == prev)) {
			targetID := items[target].ProductID
			renumber(items)
			for _, it := range items {
				if it.ProductID == targetID {
					before = it.Position
				}
			}
			continue
		}
		items[moving].Position = pos
		return items[moving], nil
	}
	return model.WishlistItem{}, fmt.Errorf("no room to move product_id %d", productID)
}

func renumber(items []model.WishlistItem) {
	for i := range items {
		items[i].Position = int64(i+1) * PositionStep
	}
}

func sortItems(items []model.WishlistItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}

func (f *FakeService) createLocked(nw model.NewWishlist) *model.Wishlist {
	wl := &model.Wishlist{
		ID:          f.nextID,
		CustomerID:  nw.CustomerID,
		Name:        nw.Name,
		Description: nw.Description,
		Category:    nw.Category,
		CreatedDate: f.today,
		UpdatedDate: f.today,
	}
	f.nextID++
	f.wishlists[wl.ID] = wl
	return wl
}

func (f *FakeService) withItemsLocked(wl *model.Wishlist) model.Wishlist {
	out := *wl
	out.Items = make([]model.WishlistItem, len(f.items[wl.ID]))
	copy(out.Items, f.items[wl.ID])
	return out
}

func decodeWishlist(w http.ResponseWriter, r *http.Request) (model.NewWishlist, bool) {
	var body struct {
		CustomerID  *int64  `json:"customer_id"`
		Name        *string `json:"name"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid type: "+err.Error())
		return model.NewWishlist{}, false
	}
	if body.CustomerID == nil {
		writeError(w, http.StatusBadRequest, "Missing key: customer_id")
		return model.NewWishlist{}, false
	}
	if body.Name == nil {
		writeError(w, http.StatusBadRequest, "Missing key: name")
		return model.NewWishlist{}, false
	}
	return model.NewWishlist{
		CustomerID:  *body.CustomerID,
		Name:        *body.Name,
		Description: body.Description,
		Category:    body.Category,
	}, true
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}
