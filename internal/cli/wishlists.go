package cli

import (
	"strings"

	"wishlist-cli/internal/format"
	"wishlist-cli/internal/model"
	"wishlist-cli/internal/wishlists"

	"github.com/spf13/cobra"
)

// wishlistForm collects the record flags shared by create, update and search.
type wishlistForm struct {
	customerID  string
	name        string
	description string
	category    string
}

func (f *wishlistForm) bind(cmd *cobra.Command, withDescription bool) {
	cmd.Flags().StringVar(&f.customerID, "customer-id", "", "Customer id")
	cmd.Flags().StringVar(&f.name, "name", "", "Wishlist name")
	if withDescription {
		cmd.Flags().StringVar(&f.description, "description", "", "Description (markdown)")
	}
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
}

// fields returns only the flags the user set, so an update leaves the rest alone.
func (f *wishlistForm) fields(cmd *cobra.Command) wishlists.Fields {
	out := wishlists.Fields{}
	set := func(flag, key, v string) {
		if cmd.Flags().Changed(flag) {
			out[key] = v
		}
	}
	set("customer-id", "customer_id", f.customerID)
	set("name", "name", f.name)
	set("description", "description", f.description)
	set("category", "category", f.category)
	return out
}

func newWishlistCmds(app *App) []*cobra.Command {
	return []*cobra.Command{
		newListCmd(app),
		newSearchCmd(app),
		newCreateCmd(app),
		newGetCmd(app),
		newUpdateCmd(app),
		newDeleteCmd(app),
		newUseCmd(app),
		newClearCmd(app),
		newSelectedCmd(app),
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all wishlists (the first one becomes selected)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.List())
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: nonNilWishlists(msg.Wishlists), Message: msg.Message()})
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	var form wishlistForm
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search wishlists by customer id, name (substring) and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := form.fields(cmd).Query()
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.Search(q))
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: nonNilWishlists(msg.Wishlists), Message: msg.Message()})
		},
	}
	form.bind(cmd, false)
	return cmd
}

func newCreateCmd(app *App) *cobra.Command {
	var form wishlistForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wishlist and select it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nw, err := form.fields(cmd).NewWishlist()
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.Create(nw))
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: wishlistRecord(msg.Wishlist), Message: msg.Message()})
		},
	}
	form.bind(cmd, true)
	return cmd
}

func newGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <wishlist-id>",
		Short: "Retrieve a wishlist and select it (a failed lookup clears the selection)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wishlists.ParseID(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.Get(id))
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := writeOut(cmd, app, envelope{Data: wishlistRecord(msg.Wishlist), Message: msg.Message()}); err != nil {
				return err
			}
			if app.Format == "table" && strings.TrimSpace(msg.Wishlist.Description) != "" {
				_, err = cmd.OutOrStdout().Write([]byte(format.RenderMarkdown(msg.Wishlist.Description, 80, "notty") + "\n"))
				return err
			}
			return nil
		},
	}
}

func newUpdateCmd(app *App) *cobra.Command {
	var form wishlistForm
	cmd := &cobra.Command{
		Use:   "update <wishlist-id>",
		Short: "Update the given fields of a wishlist and select it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wishlists.ParseID(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			patch, err := form.fields(cmd).Patch()
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.Update(id, patch))
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: wishlistRecord(msg.Wishlist), Message: msg.Message()})
		},
	}
	form.bind(cmd, true)
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <wishlist-id>",
		Short: "Delete a wishlist (clears the selection if it was selected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wishlists.ParseID(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			msg, err := s.runRecord(s.records.Delete(id))
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"id": id, "deleted": true}, Message: msg.Message()})
		},
	}
}

func newUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <wishlist-id>",
		Short: "Select a wishlist for item commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wishlists.ParseID(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			if _, err := s.runRecord(s.records.Get(id)); err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: currentSelection(s)})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the selected wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			s.sel.Clear()
			s.items.Forget()
			return writeOut(cmd, app, envelope{Data: currentSelection(s)})
		},
	}
}

func newSelectedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "selected",
		Short: "Show the selected wishlist id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: currentSelection(s)})
		},
	}
}

func currentSelection(s *session) selectionInfo {
	id, ok := s.sel.Current()
	return selectionInfo{WishlistID: id, Selected: ok}
}

func nonNilWishlists(in []model.Wishlist) wishlistRows {
	if in == nil {
		return wishlistRows{}
	}
	return wishlistRows(in)
}
