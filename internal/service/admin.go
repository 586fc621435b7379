package service

import (
	"context"
	"fmt"

	"github.com/CursosTech/cursoteca/internal/domain/catalog"
)

// UpdateField applies a single-field inline edit. The field is validated
// under the shared catalog rules before anything is sent; unchanged values
// are a no-op. The prior known-good value is always returned so the caller
// can revert its displayed value when the edit is rejected; the catalog
// store itself never rolls back.
func (s *Storefront) UpdateField(ctx context.Context, id, field, value string) (prev string, err error) {
	record, ok := s.Catalog.Get(id)
	if !ok {
		return "", fmt.Errorf("producto %s not in catalog cache", id)
	}

	patch := catalog.Patch{ID: id}
	switch field {
	case "titulo":
		prev = record.Titulo
		patch.Titulo = &value
	case "descripcion":
		prev = record.Descripcion
		patch.Descripcion = &value
	case "precio":
		prev = record.Precio
		patch.Precio = &value
	case "imagen":
		prev = record.Imagen
		patch.Imagen = &value
	case "estado":
		prev = string(record.Estado)
		estado := catalog.Status(value)
		patch.Estado = &estado
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}

	if prev == value {
		return prev, nil
	}

	if errs := catalog.ValidatePatch(patch); len(errs) > 0 {
		return prev, &catalog.ValidationError{Fields: errs}
	}

	if _, err := s.Catalog.Update(ctx, patch); err != nil {
		return prev, err
	}
	return prev, nil
}
