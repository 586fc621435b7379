package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// imagenURLPattern accepts http(s) URLs ending in a known image extension.
var imagenURLPattern = regexp.MustCompile(`^https?://.+\.(jpg|jpeg|png|webp|avif|gif|svg)$`)

// precioCharsPattern restricts raw price input to digits, dots and commas.
var precioCharsPattern = regexp.MustCompile(`^[\d.,]+$`)

// productValidator carries the field rules shared by the bulk add-product
// form and the inline per-field editors. Both entry points go through the
// same instance, so acceptance criteria cannot drift between them.
var productValidator = newProductValidator()

// ErrorMap maps a field name (JSON key) to a human-readable message.
// It is recomputed on every validation call and never persisted.
type ErrorMap map[string]string

// ValidationError reports field-level rule failures for a draft or patch.
type ValidationError struct {
	Fields ErrorMap
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	return fmt.Sprintf("validation failed for fields: %s", strings.Join(fields, ", "))
}

// NormalizePrice converts a localized price input to a number. Dots are
// thousands separators and are stripped; the first comma becomes the decimal
// point: "1.234,56" -> 1234.56.
func NormalizePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}

func newProductValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names so the error map keys match the
	// wire format (imagen, titulo, precio, descripcion).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "imagen_url", func(fl validator.FieldLevel) bool {
		return imagenURLPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "precio_chars", func(fl validator.FieldLevel) bool {
		return precioCharsPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "precio_num", func(fl validator.FieldLevel) bool {
		_, err := NormalizePrice(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "precio_pos", func(fl validator.FieldLevel) bool {
		n, err := NormalizePrice(fl.Field().String())
		return err == nil && n > 0
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidateDraft checks a full product candidate against the field rules.
// It is pure: no remote calls, no state. An empty map means the draft is
// fully valid.
func ValidateDraft(d Draft) ErrorMap {
	return translate(productValidator.Struct(d))
}

// ValidatePatch checks only the fields supplied by the patch, so the inline
// editors can validate a single changed field under the exact same rules as
// the full form.
func ValidatePatch(p Patch) ErrorMap {
	var d Draft
	var fields []string
	if p.Titulo != nil {
		d.Titulo = *p.Titulo
		fields = append(fields, "Titulo")
	}
	if p.Descripcion != nil {
		d.Descripcion = *p.Descripcion
		fields = append(fields, "Descripcion")
	}
	if p.Precio != nil {
		d.Precio = *p.Precio
		fields = append(fields, "Precio")
	}
	if p.Imagen != nil {
		d.Imagen = *p.Imagen
		fields = append(fields, "Imagen")
	}
	if len(fields) == 0 {
		return nil
	}
	return translate(productValidator.StructPartial(d, fields...))
}

// translate converts validator errors into the field -> message map consumed
// by forms. Messages match the reference storefront verbatim.
func translate(err error) ErrorMap {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Non-field error (invalid input to the validator itself).
		return ErrorMap{"_": err.Error()}
	}

	out := make(ErrorMap, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(field, fe.Tag())
	}
	return out
}

func fieldMessage(field, tag string) string {
	if tag == "notblank" {
		switch field {
		case "imagen":
			return "La URL de la imagen es obligatoria."
		case "titulo":
			return "El titulo es obligatorio."
		case "precio":
			return "El precio es obligatorio."
		case "descripcion":
			return "La descripción es obligatoria."
		}
	}

	switch tag {
	case "imagen_url":
		return "Debe ser una URL válida de imagen (jpg, png, webp, etc.)."
	case "min":
		return "Mínimo 10 caracteres."
	case "max":
		return "Máximo 200 caracteres."
	case "precio_chars":
		return "Solo números, puntos o comas."
	case "precio_num":
		return "Precio no válido."
	case "precio_pos":
		return "Debe ser mayor a 0."
	}
	return fmt.Sprintf("%s no es válido.", field)
}
