package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CursosTech/cursoteca/internal/domain/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and mutate the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cart contents and total",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/cart"); err != nil {
			return err
		}

		items := sf.Cart.Items()
		if len(items) == 0 {
			fmt.Println("El carrito esta vacio.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITULO\tPRECIO\tCANTIDAD\tSUBTOTAL")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t$%s\t%d\t$%.2f\n", it.ID, it.Titulo, it.Precio, it.Cantidad, it.Subtotal())
		}
		_ = w.Flush()
		fmt.Printf("Total: $%.2f\n", sf.Cart.Total())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <productID>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		sf.Cart.Subscribe(func(ev cart.Event) {
			if ev.Kind == cart.EventItemAdded {
				fmt.Printf("%q agregado al carrito!\n", ev.Item.Titulo)
			}
		})

		sf.Catalog.LoadByID(cmd.Context(), args[0])
		if err := sf.Catalog.Err(); err != nil {
			return err
		}
		p, ok := sf.Catalog.Viewed()
		if !ok {
			return fmt.Errorf("producto %s not found", args[0])
		}
		return sf.Cart.Add(p)
	},
}

var cartRmCmd = &cobra.Command{
	Use:   "rm <productID>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  cartMutation(func(s *cart.Store, id string) error { return s.Remove(id) }),
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <productID>",
	Short: "Increment a line's quantity",
	Args:  cobra.ExactArgs(1),
	RunE:  cartMutation(func(s *cart.Store, id string) error { return s.Increment(id) }),
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <productID>",
	Short: "Decrement a line's quantity, removing it at zero",
	Args:  cobra.ExactArgs(1),
	RunE:  cartMutation(func(s *cart.Store, id string) error { return s.Decrement(id) }),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/cart"); err != nil {
			return err
		}
		return sf.Cart.Clear()
	},
}

// cartMutation wraps the line-item operations that share the same
// guard check and id argument shape.
func cartMutation(op func(*cart.Store, string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/cart"); err != nil {
			return err
		}
		if err := op(sf.Cart, args[0]); err != nil {
			return err
		}
		fmt.Printf("Cart now holds %d items, total $%.2f\n", sf.Cart.Len(), sf.Cart.Total())
		return nil
	}
}

func init() {
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRmCmd, cartIncCmd, cartDecCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
