// Package catalog owns the client-side cache of the remote course catalog:
// the product list, the currently viewed product, and the field validation
// rules shared by every entry point that edits product data.
package catalog

import "context"

// Status is the publication state of a product.
type Status string

// Publication states as stored by the remote catalog.
const (
	StatusPublished Status = "Publicado"
	StatusPaused    Status = "Pausado"
)

// Product is one course record as served by the remote catalog.
// The identifier is assigned by the remote service on creation; the local
// cache never invents identifiers.
//
// Precio is kept in its raw string form ("1.234,56") exactly as entered and
// as echoed back by the remote service. Use PrecioNumero for arithmetic.
type Product struct {
	ID          string `json:"id"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Precio      string `json:"precio"`
	Imagen      string `json:"imagen"`
	Estado      Status `json:"estado"`
}

// PrecioNumero returns the numeric value of the price, or 0 when the stored
// string does not normalize to a number.
func (p Product) PrecioNumero() float64 {
	n, err := NormalizePrice(p.Precio)
	if err != nil {
		return 0
	}
	return n
}

// Draft is a new product candidate prior to remote identifier assignment.
type Draft struct {
	Titulo      string `json:"titulo" validate:"notblank"`
	Descripcion string `json:"descripcion" validate:"notblank,min=10,max=200"`
	Precio      string `json:"precio" validate:"notblank,precio_chars,precio_num,precio_pos"`
	Imagen      string `json:"imagen" validate:"notblank,imagen_url"`
	Estado      Status `json:"estado"`
}

// Patch is a partial update keyed by the record identifier. Nil fields are
// left untouched; only supplied fields are validated and merged.
type Patch struct {
	ID          string
	Titulo      *string
	Descripcion *string
	Precio      *string
	Imagen      *string
	Estado      *Status
}

// Apply merges the patch fields onto p and returns the merged record.
func (pt Patch) Apply(p Product) Product {
	if pt.Titulo != nil {
		p.Titulo = *pt.Titulo
	}
	if pt.Descripcion != nil {
		p.Descripcion = *pt.Descripcion
	}
	if pt.Precio != nil {
		p.Precio = *pt.Precio
	}
	if pt.Imagen != nil {
		p.Imagen = *pt.Imagen
	}
	if pt.Estado != nil {
		p.Estado = *pt.Estado
	}
	return p
}

// Client is the remote catalog collaborator. The remote service is the
// record owner: every mutation is confirmed by it before the local cache
// changes, and it alone assigns identifiers.
// This interface is defined in the domain to avoid circular imports.
// Implementations: HTTP/JSON adapter (prod), fakes (test).
type Client interface {
	// List fetches the full product list.
	List(ctx context.Context) ([]Product, error)

	// Get fetches a single product by identifier.
	Get(ctx context.Context, id string) (Product, error)

	// Create sends a draft and returns the record with its assigned identifier.
	Create(ctx context.Context, draft Draft) (Product, error)

	// Update sends the merged record and returns the remote-confirmed version.
	Update(ctx context.Context, id string, record Product) (Product, error)

	// Delete removes a product by identifier.
	Delete(ctx context.Context, id string) error
}
