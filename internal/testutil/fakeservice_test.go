package testutil

import (
	"net/http"
	"strings"
	"testing"

	"wishlist-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(items []model.WishlistItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ProductID)
	}
	return out
}

func seed(pairs ...[2]int64) []model.WishlistItem {
	out := make([]model.WishlistItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.WishlistItem{ProductID: p[0], Position: p[1]})
	}
	return out
}

func TestMoveBefore(t *testing.T) {
	tests := []struct {
		name    string
		items   []model.WishlistItem
		product int64
		before  int64
		want    []int64
	}{
		{"down between neighbours", seed([2]int64{5, 10}, [2]int64{8, 30}, [2]int64{2, 50}), 5, 50, []int64{8, 5, 2}},
		{"up to the target", seed([2]int64{5, 10}, [2]int64{8, 30}, [2]int64{2, 50}), 2, 30, []int64{5, 2, 8}},
		{"to the front", seed([2]int64{5, 10}, [2]int64{8, 30}, [2]int64{2, 50}), 2, 10, []int64{2, 5, 8}},
		{"past the end", seed([2]int64{1, 10}, [2]int64{2, 20}), 1, 1020, []int64{2, 1}},
		{"no gap renumbers", seed([2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3}), 3, 2, []int64{1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := moveBefore(tt.items, tt.product, tt.before)
			require.NoError(t, err)
			sortItems(tt.items)
			assert.Equal(t, tt.want, order(tt.items))
		})
	}
}

func TestMoveBefore_UnknownProduct(t *testing.T) {
	_, err := moveBefore(seed([2]int64{1, 10}, [2]int64{2, 20}), 9, 10)
	require.Error(t, err)
}

func TestFakeService_RejectsNonJSON(t *testing.T) {
	_, srv := NewServer(t)
	resp, err := http.Post(srv.URL+"/wishlists", "text/plain", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestFakeService_DuplicateItemConflicts(t *testing.T) {
	fs, srv := NewServer(t)
	id := fs.AddWishlist(model.NewWishlist{CustomerID: 1, Name: "a"})
	fs.AddItem(id, 7, 1000, "")

	resp, err := http.Post(srv.URL+"/wishlists/1/items", "application/json", strings.NewReader(`{"product_id":7}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, fs.Items(id), 1)
}

func TestFakeService_UpdateItemKeepsPosition(t *testing.T) {
	fs, srv := NewServer(t)
	id := fs.AddWishlist(model.NewWishlist{CustomerID: 1, Name: "a"})
	fs.AddItem(id, 7, 1000, "old")
	fs.AddItem(id, 8, 2000, "")

	put := func(path, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	assert.Equal(t, http.StatusOK, put("/wishlists/1/items/7", `{"product_id":7,"description":"new"}`).StatusCode)
	items := fs.Items(id)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Description)
	assert.Equal(t, int64(1000), items[0].Position)

	assert.Equal(t, http.StatusBadRequest, put("/wishlists/1/items/7", `{"description":"x"}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, put("/wishlists/1/items/9", `{"product_id":9}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, put("/wishlists/4/items/7", `{"product_id":7}`).StatusCode)
}
