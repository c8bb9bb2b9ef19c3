// Package validation envuelve go-playground/validator y traduce sus errores a
// domain.ValidationError con rutas de campo en formato JSON (items[0].quantity).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/domain"
)

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validator validador compartido por los casos de uso. Es seguro para uso concurrente.
type Validator struct {
	v *validator.Validate
}

// New crea el validador con decimal.Decimal registrado como numérico, nombres de campo
// tomados del tag json y la regla "slug".
func New() *Validator {
	v := validator.New()

	// decimal.Decimal como numérico para que gte=0, gt=0 funcionen.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})

	return &Validator{v: v}
}

// IsSlug informa si s solo contiene [a-z0-9-] y no está vacío.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// Struct valida s; devuelve *domain.ValidationError si algún tag falla.
// prefix se antepone a cada ruta (ej. "tenant" para {tenant: {...}}).
func (val *Validator) Struct(s interface{}, prefix string) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	out := domain.NewValidationError()
	for _, fe := range verrs {
		out.Add(fieldPath(prefix, fe.Namespace()), message(fe))
	}
	return out
}

// fieldPath quita el nombre del struct raíz del namespace y aplica el prefijo.
func fieldPath(prefix, ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if prefix == "" {
		return ns
	}
	return prefix + "." + ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "slug":
		return "solo puede contener letras minúsculas, números y guiones"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "debe tener el formato " + fe.Param()
	default:
		return "no es válido (" + fe.Tag() + ")"
	}
}
