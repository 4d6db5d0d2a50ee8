package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/output"
)

func (a *app) basketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Manage the customer's basket",
		Long: `Manage the basket of the customer given by --customer or auth.customer-id:
show, add, set-quantity, remove, clear`,
	}

	cmd.AddCommand(a.basketShowCommand())
	cmd.AddCommand(a.basketAddCommand())
	cmd.AddCommand(a.basketSetQuantityCommand())
	cmd.AddCommand(a.basketRemoveCommand())
	cmd.AddCommand(a.basketClearCommand())

	return cmd
}

func (a *app) basketShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the basket",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.basketState().GetBasket(cmd.Context())
			if err != nil {
				return a.clientError(err)
			}
			return a.printer.Print("basket show", b, basketTable(b))
		},
	}
}

func (a *app) basketAddCommand() *cobra.Command {
	var flagQuantity int
	var flagName string
	var flagPrice float64

	cmd := &cobra.Command{
		Use:   "add <game-id>",
		Short: "Add a game to the basket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagQuantity < 1 {
				return errors.NewUsageError("--quantity must be at least 1")
			}
			item := models.BasketItem{
				ID:            args[0],
				Quantity:      flagQuantity,
				CatalogItemID: args[0],
				Name:          flagName,
				UnitPrice:     flagPrice,
			}

			res := a.basketState().AddItem(cmd.Context(), item)
			if err := a.commandError(res, ""); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("basket add", res, fmt.Sprintf("Added %d x %s", flagQuantity, args[0]))
		},
	}

	cmd.Flags().IntVar(&flagQuantity, "quantity", 1, "Quantity to add")
	cmd.Flags().StringVar(&flagName, "name", "", "Display name")
	cmd.Flags().Float64Var(&flagPrice, "price", 0, "Unit price")

	return cmd
}

func (a *app) basketSetQuantityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <item-id> <quantity>",
		Short: "Change the quantity of a basket item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity < 1 {
				return errors.NewUsageError(fmt.Sprintf("quantity must be a positive integer, got %q", args[1]))
			}

			res := a.basketState().UpdateQuantity(cmd.Context(), args[0], quantity)
			if err := a.commandError(res, ""); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("basket set-quantity", res, fmt.Sprintf("Quantity of %s set to %d", args[0], quantity))
		},
	}
}

func (a *app) basketRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item from the basket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.basketState().RemoveItem(cmd.Context(), args[0])
			if err := a.commandError(res, ""); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("basket remove", res, fmt.Sprintf("Removed %s", args[0]))
		},
	}
}

func (a *app) basketClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole basket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.CustomerID == "" {
				return errors.NewValidationError("no customer configured", "Pass --customer or set STOREFRONT_AUTH_CUSTOMER_ID.")
			}
			res := a.basketClient().DeleteBasket(cmd.Context(), a.cfg.CustomerID)
			if err := a.commandError(res, ""); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("basket clear", res, "Basket cleared")
		},
	}
}

func basketTable(b *models.CustomerBasket) output.Table {
	table := output.Table{Headers: []string{"ID", "NAME", "QUANTITY", "UNIT PRICE"}}
	for _, item := range b.Items {
		table.Rows = append(table.Rows, []string{item.ID, item.Name, strconv.Itoa(item.Quantity), formatPrice(item.UnitPrice)})
	}
	table.Rows = append(table.Rows, []string{"", "TOTAL", "", formatPrice(b.TotalAmount)})
	return table
}
