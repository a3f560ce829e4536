package cmd

import (
	"fmt"
	"text/tabwriter"

	"petcover_service/internal/domain"

	"github.com/spf13/cobra"
)

var (
	productName      string
	productCategory  string
	productPrice     float64
	productTemplates []string

	mockupImage string
	mockupName  string
	mockupPrice float64
	coverX      float64
	coverY      float64
	coverW      float64
	coverH      float64
	coverWidth  int
	coverHeight int
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage catalog products, templates and mockups",
}

var productCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product with its initial template images",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		product, err := a.products.CreateProduct(cmd.Context(), productName, productCategory, productPrice, productTemplates)
		if err != nil {
			return err
		}
		fmt.Printf("Created product %s (key %s) with %d templates\n", product.ID.Hex(), product.Key, len(product.Templates))
		return nil
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products in creation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		products, err := a.products.ListProducts(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tKEY\tPRICE\tTEMPLATES\tCOVER\tCREATED")
		for i := range products {
			p := &products[i]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%dx%d\t%s\n",
				p.ID.Hex(), p.Name, p.Category, p.Key, p.Price,
				len(p.ResolvedTemplates()),
				p.CoverSize.Width, p.CoverSize.Height,
				p.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var productStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show product counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		counts, err := a.products.CountByCategory(cmd.Context())
		if err != nil {
			return err
		}
		for category, count := range counts {
			fmt.Printf("%s: %d\n", category, count)
		}
		return nil
	},
}

var productAddTemplateCmd = &cobra.Command{
	Use:   "add-template <product-id> <image-ref> [image-ref...]",
	Short: "Append template images to a product",
	Long: `Append one or more template image references to a product. Each image is
applied with an independent atomic append; if one fails, earlier appends are
kept.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		updated, err := a.products.AddTemplates(cmd.Context(), args[0], args[1:])
		if updated != nil {
			fmt.Printf("Product %s now has %d templates\n", args[0], len(updated.Templates))
		}
		return err
	},
}

var productRemoveTemplateCmd = &cobra.Command{
	Use:   "remove-template <product-id> <index>",
	Short: "Remove the template at the given index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var index int
		if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
			return fmt.Errorf("index must be an integer: %w", err)
		}

		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		updated, err := a.products.RemoveTemplate(cmd.Context(), args[0], index)
		if err != nil {
			return err
		}
		fmt.Printf("Removed template %d, %d remain\n", index, len(updated.Templates))
		return nil
	},
}

var productSetMockupCmd = &cobra.Command{
	Use:   "set-mockup <product-id>",
	Short: "Update mockup image, cover geometry, and optionally name/price",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		update := domain.MockupUpdate{
			Area: domain.CoverArea{X: coverX, Y: coverY, Width: coverW, Height: coverH},
			Size: domain.CoverSize{Width: coverWidth, Height: coverHeight},
		}
		if cmd.Flags().Changed("mockup") {
			update.MockupImage = &mockupImage
		}
		if cmd.Flags().Changed("name") {
			update.Name = &mockupName
		}
		if cmd.Flags().Changed("price") {
			update.Price = &mockupPrice
		}

		updated, err := a.products.UpdateMockup(cmd.Context(), args[0], update)
		if err != nil {
			return err
		}
		placement := updated.Placement()
		fmt.Printf("Mockup updated: area (%.2f, %.2f, %.2f, %.2f), canvas %dx%d\n",
			placement.Area.X, placement.Area.Y, placement.Area.Width, placement.Area.Height,
			placement.Size.Width, placement.Size.Height)
		return nil
	},
	Args: cobra.ExactArgs(1),
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product (existing orders keep their snapshots)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if err := a.products.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Product %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productCreateCmd, productListCmd, productStatsCmd,
		productAddTemplateCmd, productRemoveTemplateCmd, productSetMockupCmd, productDeleteCmd)

	productCreateCmd.Flags().StringVar(&productName, "name", "", "Product name")
	productCreateCmd.Flags().StringVar(&productCategory, "category", "", "Product category (must be in the configured set)")
	productCreateCmd.Flags().Float64Var(&productPrice, "price", 0, "Product price")
	productCreateCmd.Flags().StringSliceVar(&productTemplates, "template", nil, "Initial template image reference (repeatable)")
	_ = productCreateCmd.MarkFlagRequired("name")
	_ = productCreateCmd.MarkFlagRequired("category")
	_ = productCreateCmd.MarkFlagRequired("template")

	productSetMockupCmd.Flags().StringVar(&mockupImage, "mockup", "", "Mockup image reference")
	productSetMockupCmd.Flags().StringVar(&mockupName, "name", "", "New product name")
	productSetMockupCmd.Flags().Float64Var(&mockupPrice, "price", 0, "New product price")
	productSetMockupCmd.Flags().Float64Var(&coverX, "x", 0, "Cover area x (fraction of mockup)")
	productSetMockupCmd.Flags().Float64Var(&coverY, "y", 0, "Cover area y (fraction of mockup)")
	productSetMockupCmd.Flags().Float64Var(&coverW, "width", 1, "Cover area width (fraction of mockup)")
	productSetMockupCmd.Flags().Float64Var(&coverH, "height", 1, "Cover area height (fraction of mockup)")
	productSetMockupCmd.Flags().IntVar(&coverWidth, "px-width", 300, "Cover canvas width in pixels")
	productSetMockupCmd.Flags().IntVar(&coverHeight, "px-height", 500, "Cover canvas height in pixels")
}
