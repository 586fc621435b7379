package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CursosTech/cursoteca/internal/domain/catalog"
	"github.com/CursosTech/cursoteca/internal/domain/guard"
	"github.com/CursosTech/cursoteca/internal/service"
)

var (
	productosSearch  string
	productosPage    int
	productosPerPage int
	productosAll     bool

	addTitulo      string
	addDescripcion string
	addPrecio      string
	addImagen      string
	addEstado      string
)

var productosCmd = &cobra.Command{
	Use:   "productos",
	Short: "List, view and administer catalog products",
}

var productosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published products with search and pagination",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		sf.Catalog.LoadAll(cmd.Context())
		if err := sf.Catalog.Err(); err != nil {
			return err
		}

		list := sf.Catalog.Products()
		if !productosAll {
			list = catalog.Published(list)
		}
		list = catalog.Search(list, productosSearch)
		total := len(list)
		list = catalog.Paginate(list, productosPage, productosPerPage)

		printProducts(list)
		fmt.Printf("%d of %d productos (page %d)\n", len(list), total, productosPage)
		return nil
	},
}

var productosGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		sf.Catalog.LoadByID(cmd.Context(), args[0])
		if err := sf.Catalog.Err(); err != nil {
			return err
		}
		p, ok := sf.Catalog.Viewed()
		if !ok {
			return fmt.Errorf("producto %s not found", args[0])
		}

		fmt.Printf("ID:          %s\n", p.ID)
		fmt.Printf("Titulo:      %s\n", p.Titulo)
		fmt.Printf("Descripcion: %s\n", p.Descripcion)
		fmt.Printf("Precio:      $%s\n", p.Precio)
		fmt.Printf("Imagen:      %s\n", p.Imagen)
		fmt.Printf("Estado:      %s\n", p.Estado)
		return nil
	},
}

var productosAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a product (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/admin/productos"); err != nil {
			return err
		}

		draft := catalog.Draft{
			Titulo:      addTitulo,
			Descripcion: addDescripcion,
			Precio:      addPrecio,
			Imagen:      addImagen,
			Estado:      catalog.Status(addEstado),
		}
		created, err := sf.Catalog.Create(cmd.Context(), draft)
		if err != nil {
			return reportValidation(err)
		}
		fmt.Printf("Created producto %s\n", created.ID)
		return nil
	},
}

var productosEditCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Edit one field of a product (admin only)",
	Long: `Edit validates the field under the shared catalog rules, sends the
change to the remote catalog and, when the remote rejects it, reports the
prior value the display should revert to.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/admin/productos"); err != nil {
			return err
		}

		sf.Catalog.LoadAll(cmd.Context())
		if err := sf.Catalog.Err(); err != nil {
			return err
		}

		prev, err := sf.UpdateField(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			if prev != "" {
				fmt.Fprintf(os.Stderr, "edit failed, revert display to %q\n", prev)
			}
			return reportValidation(err)
		}
		fmt.Printf("Updated %s of producto %s\n", args[1], args[0])
		return nil
	},
}

var productosRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a product (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := requireRoute(sf, "/admin/productos"); err != nil {
			return err
		}

		if err := sf.Catalog.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed producto %s\n", args[0])
		return nil
	},
}

func printProducts(list []catalog.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITULO\tPRECIO\tESTADO")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t$%s\t%s\n", p.ID, p.Titulo, p.Precio, p.Estado)
	}
	_ = w.Flush()
}

// requireRoute resolves path through the guarded route table and refuses
// the command when the guard denies it.
func requireRoute(sf *service.Storefront, path string) error {
	res := sf.Routes.Resolve(path)
	switch res.Decision {
	case guard.DecisionAllowed:
		return nil
	case guard.DecisionPending:
		return fmt.Errorf("session state not settled yet, try again")
	default:
		return fmt.Errorf("access to %s denied (redirected to %s); log in with the required role", path, res.Path)
	}
}

// reportValidation expands a validation error into its per-field messages.
func reportValidation(err error) error {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
	}
	return err
}

func init() {
	productosListCmd.Flags().StringVar(&productosSearch, "search", "", "filter by titulo or descripcion")
	productosListCmd.Flags().IntVar(&productosPage, "page", 1, "page number")
	productosListCmd.Flags().IntVar(&productosPerPage, "per-page", 12, "products per page")
	productosListCmd.Flags().BoolVar(&productosAll, "all", false, "include paused products")

	productosAddCmd.Flags().StringVar(&addTitulo, "titulo", "", "product title")
	productosAddCmd.Flags().StringVar(&addDescripcion, "descripcion", "", "product description (10-200 characters)")
	productosAddCmd.Flags().StringVar(&addPrecio, "precio", "", "product price, e.g. 1.234,56")
	productosAddCmd.Flags().StringVar(&addImagen, "imagen", "", "image URL")
	productosAddCmd.Flags().StringVar(&addEstado, "estado", string(catalog.StatusPublished), "Publicado or Pausado")

	productosCmd.AddCommand(productosListCmd, productosGetCmd, productosAddCmd, productosEditCmd, productosRmCmd)
	rootCmd.AddCommand(productosCmd)
}
