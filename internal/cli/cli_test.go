package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/selection"
	"wishlist-cli/internal/testutil"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type harness struct {
	t   *testing.T
	dir string
	fs  *testutil.FakeService
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs, srv := testutil.NewServer(t)
	return &harness{t: t, dir: t.TempDir(), fs: fs, url: srv.URL}
}

func (h *harness) args(extra ...string) []string {
	return append([]string{"--config-dir", h.dir, "--base-url", h.url, "--log-file", "-"}, extra...)
}

// mustRun runs a command that must succeed and returns its decoded envelope.
func (h *harness) mustRun(extra ...string) map[string]any {
	h.t.Helper()
	stdout, stderr, err := runCLI(h.t, h.args(extra...))
	if err != nil {
		h.t.Fatalf("command failed: wishlist %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", extra, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		h.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, extra)
	}
	if _, ok := env["data"]; !ok {
		h.t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

// mustFail runs a command that must fail and returns what it printed on stderr.
func (h *harness) mustFail(extra ...string) string {
	h.t.Helper()
	stdout, stderr, err := runCLI(h.t, h.args(extra...))
	if err == nil {
		h.t.Fatalf("expected wishlist %v to fail; stdout:\n%s", extra, stdout)
	}
	return strings.TrimSpace(string(stderr))
}

func (h *harness) selected() (int64, bool) {
	h.t.Helper()
	env := h.mustRun("selected")
	data := env["data"].(map[string]any)
	sel, _ := data["selected"].(bool)
	id, _ := data["wishlist_id"].(float64)
	return int64(id), sel
}

func productOrder(t *testing.T, env map[string]any) []int64 {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected item list, got %#v", env["data"])
	}
	out := make([]int64, 0, len(xs))
	for _, x := range xs {
		out = append(out, int64(x.(map[string]any)["product_id"].(float64)))
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreate_SelectsAndShowsEmptyItems(t *testing.T) {
	h := newHarness(t)

	env := h.mustRun("create", "--customer-id", "3", "--name", "Birthday", "--category", "gifts")
	data := env["data"].(map[string]any)
	if data["id"].(float64) != 1 || data["name"] != "Birthday" {
		t.Fatalf("unexpected created wishlist %#v", data)
	}
	if env["message"] != "Success" {
		t.Fatalf("message=%v", env["message"])
	}

	if id, ok := h.selected(); !ok || id != 1 {
		t.Fatalf("expected Selected(1), got (%d, %v)", id, ok)
	}

	items := h.mustRun("items", "list")
	if got := productOrder(t, items); len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
}

func TestItems_RequireSelection(t *testing.T) {
	h := newHarness(t)

	msg := h.mustFail("items", "add", "--product-id", "42")
	if msg != selection.ErrNoSelection.Error() {
		t.Fatalf("stderr=%q", msg)
	}
	for _, r := range h.fs.Requests() {
		if strings.Contains(r.Path, "/items") {
			t.Fatalf("item request sent without a selection: %+v", r)
		}
	}
}

func TestItems_AddRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")

	env := h.mustRun("items", "add", "--product-id", "42", "--description", "Blue scarf")
	if env["message"] != "Item added" {
		t.Fatalf("message=%v", env["message"])
	}
	h.mustRun("items", "add", "--product-id", "7")
	if got := productOrder(t, h.mustRun("items", "list")); !equalIDs(got, []int64{42, 7}) {
		t.Fatalf("order=%v", got)
	}

	env = h.mustRun("items", "rm", "42")
	if got := productOrder(t, env); !equalIDs(got, []int64{7}) {
		t.Fatalf("order after rm=%v", got)
	}

	// Duplicate product: the service message is shown verbatim.
	msg := h.mustFail("items", "add", "--product-id", "7")
	if msg != "Product 7 is already in wishlist 1" {
		t.Fatalf("stderr=%q", msg)
	}
}

func TestItems_EditAndGet(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")
	h.mustRun("items", "add", "--product-id", "42", "--description", "scarf")
	h.mustRun("items", "add", "--product-id", "7")

	env := h.mustRun("items", "edit", "42", "--description", "red scarf")
	if env["message"] != "Item updated" {
		t.Fatalf("message=%v", env["message"])
	}
	if got := productOrder(t, env); !equalIDs(got, []int64{42, 7}) {
		t.Fatalf("an edit must keep the order; got %v", got)
	}
	if n := h.fs.CountRequests(http.MethodGet, "/wishlists/1/items"); n < 1 {
		t.Fatalf("expected the edit to refresh the list")
	}

	env = h.mustRun("items", "get", "42")
	got := env["data"].([]any)[0].(map[string]any)
	if got["description"] != "red scarf" {
		t.Fatalf("unexpected item %#v", got)
	}

	msg := h.mustFail("items", "edit", "9", "--description", "x")
	if msg != "Wishlist item with id '9' could not be found." {
		t.Fatalf("stderr=%q", msg)
	}
	msg = h.mustFail("items", "edit", "abc")
	if !strings.Contains(msg, "product id") {
		t.Fatalf("stderr=%q", msg)
	}
}

func TestItems_DropInterpretsRows(t *testing.T) {
	h := newHarness(t)
	id := h.fs.AddWishlist(model.NewWishlist{CustomerID: 3, Name: "Birthday"})
	h.fs.AddItem(id, 5, 10, "")
	h.fs.AddItem(id, 8, 30, "")
	h.fs.AddItem(id, 2, 50, "")
	h.mustRun("use", "1")

	env := h.mustRun("items", "drop", "5", "8")
	if env["message"] != "Item moved" {
		t.Fatalf("message=%v", env["message"])
	}
	if got := productOrder(t, env); !equalIDs(got, []int64{8, 5, 2}) {
		t.Fatalf("order after dropping 5 on 8=%v", got)
	}

	var patch testutil.Request
	for _, r := range h.fs.Requests() {
		if r.Method == http.MethodPatch {
			patch = r
		}
	}
	if patch.Path != "/wishlists/1/items/5" || !strings.Contains(patch.Body, `"before_position":50`) {
		t.Fatalf("unexpected move request %+v", patch)
	}

	env = h.mustRun("items", "drop", "2", "8")
	if got := productOrder(t, env); !equalIDs(got, []int64{2, 8, 5}) {
		t.Fatalf("order after dropping 2 on 8=%v", got)
	}
}

func TestItems_MoveValidationSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")
	h.mustRun("items", "add", "--product-id", "5")

	msg := h.mustFail("items", "move", "5", "--before", "soon")
	if msg != "Invalid position: must be an integer" {
		t.Fatalf("stderr=%q", msg)
	}
	if n := h.fs.CountRequests(http.MethodPatch, "/wishlists/1/items/5"); n != 0 {
		t.Fatalf("expected no move request, got %d", n)
	}
}

func TestItems_MoveFailureKeepsRows(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")
	h.mustRun("items", "add", "--product-id", "5")
	h.mustRun("items", "add", "--product-id", "8")

	h.fs.FailWith(http.MethodPatch, "/wishlists/1/items/8", http.StatusBadRequest, "item with product_id 8 not found in wishlist 1")
	lists := h.fs.CountRequests(http.MethodGet, "/wishlists/1/items")

	msg := h.mustFail("items", "move", "8", "--before", "1000")
	if msg != "item with product_id 8 not found in wishlist 1" {
		t.Fatalf("stderr=%q", msg)
	}
	if n := h.fs.CountRequests(http.MethodGet, "/wishlists/1/items"); n != lists {
		t.Fatalf("failed move must not refetch items (%d -> %d)", lists, n)
	}
	if got := h.fs.Items(1); got[0].ProductID != 5 || got[1].ProductID != 8 {
		t.Fatalf("items changed: %+v", got)
	}
}

func TestItems_WishlistFlagDoesNotPersist(t *testing.T) {
	h := newHarness(t)
	h.fs.AddWishlist(model.NewWishlist{CustomerID: 3, Name: "a"})
	h.fs.AddWishlist(model.NewWishlist{CustomerID: 3, Name: "b"})
	h.mustRun("use", "1")

	h.mustRun("items", "add", "--wishlist", "2", "--product-id", "9")
	if got := h.fs.Items(2); len(got) != 1 {
		t.Fatalf("expected the item in wishlist 2, got %+v", got)
	}
	if id, ok := h.selected(); !ok || id != 1 {
		t.Fatalf("expected Selected(1) to survive, got (%d, %v)", id, ok)
	}
}

func TestGet_FailureClearsSelection(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")

	msg := h.mustFail("get", "42")
	if msg != "Wishlist with id '42' was not found." {
		t.Fatalf("stderr=%q", msg)
	}
	if _, ok := h.selected(); ok {
		t.Fatalf("expected NoSelection after a failed lookup")
	}
}

func TestDelete_ClearsOnlyTheSelectedWishlist(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "a")
	h.mustRun("create", "--customer-id", "3", "--name", "b")

	env := h.mustRun("delete", "1")
	if env["message"] != "Wishlist has been Deleted!" {
		t.Fatalf("message=%v", env["message"])
	}
	if id, ok := h.selected(); !ok || id != 2 {
		t.Fatalf("deleting another wishlist changed the selection: (%d, %v)", id, ok)
	}

	h.mustRun("delete", "2")
	if _, ok := h.selected(); ok {
		t.Fatalf("expected NoSelection after deleting the selected wishlist")
	}
}

func TestListAndSearch(t *testing.T) {
	h := newHarness(t)
	h.fs.AddWishlist(model.NewWishlist{CustomerID: 3, Name: "Birthday", Category: "gifts"})
	h.fs.AddWishlist(model.NewWishlist{CustomerID: 4, Name: "Books", Category: "reading"})

	env := h.mustRun("list")
	if xs := env["data"].([]any); len(xs) != 2 {
		t.Fatalf("expected 2 wishlists, got %d", len(xs))
	}
	if id, _ := h.selected(); id != 1 {
		t.Fatalf("list should select the first wishlist, got %d", id)
	}

	env = h.mustRun("search", "--category", "READING")
	xs := env["data"].([]any)
	if len(xs) != 1 || xs[0].(map[string]any)["name"] != "Books" {
		t.Fatalf("unexpected search result %#v", xs)
	}
	if id, _ := h.selected(); id != 2 {
		t.Fatalf("search should select its first result, got %d", id)
	}

	env = h.mustRun("search", "--name", "zzz")
	if xs := env["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected no results, got %#v", xs)
	}
	if id, _ := h.selected(); id != 2 {
		t.Fatalf("an empty search must keep the selection, got %d", id)
	}
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday", "--description", "for *mum*", "--category", "gifts")

	env := h.mustRun("update", "1", "--name", "Holiday")
	data := env["data"].(map[string]any)
	if data["name"] != "Holiday" || data["description"] != "for *mum*" || data["category"] != "gifts" {
		t.Fatalf("unexpected update result %#v", data)
	}

	if msg := h.mustFail("update", "1"); msg != "Invalid update: nothing to change" {
		t.Fatalf("stderr=%q", msg)
	}
}

func TestHistory_RecordsOutcomes(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")
	h.mustFail("get", "9")

	env := h.mustRun("history", "--limit", "5")
	xs := env["data"].([]any)
	if len(xs) < 2 {
		t.Fatalf("expected at least 2 entries, got %#v", xs)
	}
	newest := xs[0].(map[string]any)
	if newest["op"] != "get" || newest["ok"] != false || newest["message"] != "Wishlist with id '9' was not found." {
		t.Fatalf("unexpected newest entry %#v", newest)
	}
}

func TestTableFormat(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--customer-id", "3", "--name", "Birthday")

	stdout, stderr, err := runCLI(t, h.args("--format", "table", "list"))
	if err != nil {
		t.Fatalf("list --format table: %v\n%s", err, stderr)
	}
	for _, want := range []string{"name", "Birthday"} {
		if !strings.Contains(string(stdout), want) {
			t.Fatalf("expected %q in table output:\n%s", want, stdout)
		}
	}
}

func TestTransportFailureMessage(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := runCLI(t, []string{"--config-dir", dir, "--base-url", "http://127.0.0.1:1", "--log-file", "-", "list"})
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got := strings.TrimSpace(string(stderr)); got != "Unable to reach the wishlist service" {
		t.Fatalf("stderr=%q", got)
	}
}

func TestDocs(t *testing.T) {
	h := newHarness(t)

	env := h.mustRun("docs")
	topics, _ := env["data"].([]any)
	if len(topics) == 0 || topics[0] != "ordering" {
		t.Fatalf("topics=%v", env["data"])
	}

	stdout, _, err := runCLI(t, h.args("docs", "ordering", "--raw"))
	if err != nil || !strings.HasPrefix(string(stdout), "# Ordering") {
		t.Fatalf("docs --raw: err=%v stdout=%q", err, stdout)
	}

	if msg := h.mustFail("docs", "nope"); !strings.HasPrefix(msg, "Invalid topic: unknown topic") {
		t.Fatalf("stderr=%q", msg)
	}
}
