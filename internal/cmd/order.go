package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"petcover_service/internal/domain"

	"github.com/spf13/cobra"
)

var (
	orderPage   int
	orderLimit  int
	orderSearch string
	orderStatus string
	orderKind   string
	orderUser   string
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect and manage the order queue",
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders with paging, search and filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if orderUser != "" {
			orders, err := a.orders.GetOrdersForUser(cmd.Context(), orderUser)
			if err != nil {
				return err
			}
			return printOrders(cmd, orders)
		}

		page, err := a.orders.ListOrders(cmd.Context(), domain.ListOrdersParams{
			Page:   orderPage,
			Limit:  orderLimit,
			Search: orderSearch,
			Status: domain.OrderStatus(orderStatus),
			Kind:   domain.ItemKind(orderKind),
		})
		if err != nil {
			return err
		}
		if err := printOrders(cmd, page.Orders); err != nil {
			return err
		}
		fmt.Printf("page %d/%d, %d orders total\n", page.Page, page.Pages, page.Total)
		return nil
	},
}

func printOrders(cmd *cobra.Command, orders []domain.Order) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tEMAIL\tITEMS\tTOTAL\tTYPE\tSTATUS\tCREATED")
	for i := range orders {
		o := &orders[i]
		kind := domain.KindSimple
		if o.HasPetAsset() {
			kind = domain.KindPetAsset
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			o.ID.Hex(), o.FullName, o.Email, len(o.Items), o.Total, kind, o.Status,
			o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

var orderConfirmCmd = &cobra.Command{
	Use:   "confirm <order-id>",
	Short: "Confirm a pending order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		order, err := a.orders.ConfirmOrder(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrAlreadyConfirmed) {
			// Treated as success here: the state the caller wanted already holds.
			fmt.Printf("Order %s was already confirmed\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Order %s confirmed\n", order.ID.Hex())
		return nil
	},
}

var orderDeleteCmd = &cobra.Command{
	Use:   "delete <order-id>",
	Short: "Delete an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if err := a.orders.DeleteOrder(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Order %s deleted\n", args[0])
		return nil
	},
}

var orderShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show an order with its fulfillment snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		order, err := a.orders.GetOrderByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Order %s (%s)\n", order.ID.Hex(), order.Status)
		fmt.Printf("Customer: %s <%s> %s\n", order.FullName, order.Email, order.Phone)
		fmt.Printf("Address: %s\n", order.Address)
		for i, item := range order.Items {
			fmt.Printf("  item %d: %s x%d @ %.2f (%s)\n", i, item.ProductName, item.Quantity, item.Price, domain.ClassifyItem(item))
			if item.CustomText != "" {
				fmt.Printf("    text: %q\n", item.CustomText)
			}
			if item.TemplateImage != "" {
				fmt.Printf("    template: %s\n", item.TemplateImage)
			}
			if item.UserCustomImage != "" {
				fmt.Printf("    upload: %s\n", item.UserCustomImage)
			}
			if item.DesignImage != "" {
				fmt.Printf("    design: %s\n", item.DesignImage)
			}
		}
		fmt.Printf("Total: %.2f\n", order.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(orderListCmd, orderConfirmCmd, orderDeleteCmd, orderShowCmd)

	orderListCmd.Flags().IntVar(&orderPage, "page", 1, "Page number")
	orderListCmd.Flags().IntVar(&orderLimit, "limit", 10, "Orders per page (max 100)")
	orderListCmd.Flags().StringVar(&orderSearch, "search", "", "Substring match on customer name, email or order id")
	orderListCmd.Flags().StringVar(&orderStatus, "status", "", "Filter by status (pending|confirmed)")
	orderListCmd.Flags().StringVar(&orderKind, "type", "", "Filter by order type (simple|pet_asset)")
	orderListCmd.Flags().StringVar(&orderUser, "user", "", "List all orders for a user instead of paging")
}
