// Package validation implementa las validaciones de forma que se ejecutan antes de tocar
// cualquier repositorio: campos obligatorios, formatos, importes y identificadores.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/albaranes-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo, que es lo que ve el cliente.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal se valida como número (gte, lte...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Struct valida un DTO según sus etiquetas `validate`. Devuelve *domain.ValidationError
// con un mensaje por campo inválido.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return domain.NewValidationError(msgs...)
}

// ID comprueba que un identificador sea un UUID en forma canónica (minúsculas, con guiones)
// antes de consultarlo. uuid.Parse también acepta urn:uuid:, llaves, mayúsculas y hex sin
// guiones, que no coinciden con lo guardado.
func ID(field, value string) error {
	if u, err := uuid.Parse(value); err != nil || u.String() != value {
		return domain.NewValidationError(fmt.Sprintf("%s: identificador inválido", field))
	}
	return nil
}

// IDs valida varios identificadores a la vez (pares campo, valor) y acumula los errores.
func IDs(pairs ...string) error {
	var msgs []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := ID(pairs[i], pairs[i+1]); err != nil {
			msgs = append(msgs, err.(*domain.ValidationError).Messages...)
		}
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

// allowedImageTypes tipos aceptados para firmas y logos.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Image valida un fichero de imagen subido.
func Image(field string, size int64, contentType string) error {
	if size <= 0 {
		return domain.NewValidationError(fmt.Sprintf("%s: no se subió ninguna imagen", field))
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !allowedImageTypes[ct] {
		return domain.NewValidationError(fmt.Sprintf("%s: tipo de fichero no admitido (%s)", field, contentType))
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " es obligatorio"
	case "email":
		return field + ": email inválido"
	case "numeric":
		return field + " debe ser numérico"
	case "len":
		return fmt.Sprintf("%s debe tener %s caracteres", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return field + " no puede estar vacío"
			}
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual que %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}

// fieldPath quita el nombre del struct raíz: "CreateDeliveryNoteRequest.materials[0].quantity" → "materials[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
