// Package cart maintains the shopping cart as a quantity-adjusted subset of
// products. It is independent of the catalog's remote state and durable
// across restarts through the local storage port.
package cart

import "github.com/CursosTech/cursoteca/internal/domain/catalog"

// LineItem is one product snapshot plus the quantity in the cart.
// The snapshot is taken at add time; later catalog edits do not rewrite it.
// Cantidad is never observable as zero: reaching zero removes the line.
type LineItem struct {
	catalog.Product
	Cantidad int `json:"cantidad"`
}

// Subtotal is the line contribution to the cart total.
func (li LineItem) Subtotal() float64 {
	return li.PrecioNumero() * float64(li.Cantidad)
}
