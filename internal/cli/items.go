package cli

import (
	"wishlist-cli/internal/drag"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	var wishlist string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Items of the selected wishlist",
	}
	cmd.PersistentFlags().StringVar(&wishlist, "wishlist", "", "Wishlist id (default: the selected wishlist)")

	cmd.AddCommand(newItemsListCmd(app, &wishlist))
	cmd.AddCommand(newItemsGetCmd(app, &wishlist))
	cmd.AddCommand(newItemsAddCmd(app, &wishlist))
	cmd.AddCommand(newItemsEditCmd(app, &wishlist))
	cmd.AddCommand(newItemsRmCmd(app, &wishlist))
	cmd.AddCommand(newItemsMoveCmd(app, &wishlist))
	cmd.AddCommand(newItemsDropCmd(app, &wishlist))
	return cmd
}

// itemsOutput is the current item list after a command, in display order.
func itemsOutput(s *session) itemRows {
	items := s.items.Items()
	if items == nil {
		return itemRows{}
	}
	return itemRows(items)
}

func newItemsListCmd(app *App, wishlist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := s.refresh(id); err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s)})
		},
	}
}

func newItemsGetCmd(app *App, wishlist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			pid, err := drag.ParseKey("product id", args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			ctx, cancel := app.requestContext(cmd)()
			defer cancel()
			it, err := app.api.GetItem(ctx, id, pid)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemRows{it}})
		},
	}
}

func newItemsAddCmd(app *App, wishlist *string) *cobra.Command {
	var productID string
	var description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			add, err := s.items.Add(id, productID, description)
			if err != nil {
				return app.fail(cmd, err)
			}
			text, err := s.runMutation(add)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s), Message: text})
		},
	}
	cmd.Flags().StringVar(&productID, "product-id", "", "Product id")
	cmd.Flags().StringVar(&description, "description", "", "Item description")
	return cmd
}

func newItemsEditCmd(app *App, wishlist *string) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "edit <product-id> --description <text>",
		Short: "Replace an item's description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			edit, err := s.items.Edit(id, args[0], description)
			if err != nil {
				return app.fail(cmd, err)
			}
			text, err := s.runMutation(edit)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s), Message: text})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "New item description")
	return cmd
}

func newItemsRmCmd(app *App, wishlist *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <product-id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item from the wishlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			pid, err := drag.ParseKey("product id", args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			text, err := s.runMutation(s.items.Remove(id, pid))
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s), Message: text})
		},
	}
}

func newItemsMoveCmd(app *App, wishlist *string) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "move <product-id> --before <position>",
		Short: "Move an item in front of the item currently at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			move, err := s.moves.MoveBefore(id, args[0], before)
			if err != nil {
				return app.fail(cmd, err)
			}
			text, err := s.runMutation(move)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s), Message: text})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Position of the item to move in front of")
	return cmd
}

func newItemsDropCmd(app *App, wishlist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <source-product-id> <target-product-id>",
		Short: "Reorder as if the source row were dragged onto the target row",
		Long: `Reorder as if the source row were dragged onto the target row.

Dropping onto a row above the source places the source in front of it.
Dropping onto a row below places the source after it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, app)
			if err != nil {
				return app.fail(cmd, err)
			}
			id, err := s.wishlistFor(*wishlist)
			if err != nil {
				return app.fail(cmd, err)
			}
			source, err := drag.ParseKey("product id", args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			target, err := drag.ParseKey("target product id", args[1])
			if err != nil {
				return app.fail(cmd, err)
			}
			// The drop is interpreted against the list as the service has it now.
			if err := s.refresh(id); err != nil {
				return app.fail(cmd, err)
			}
			move, err := s.moves.Drop(id, s.items.Items(), source, target)
			if err != nil {
				return app.fail(cmd, err)
			}
			text, err := s.runMutation(move)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: itemsOutput(s), Message: text})
		},
	}
}
