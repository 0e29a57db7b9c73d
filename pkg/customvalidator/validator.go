package customvalidator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

var (
	// Децимальный номер: буквенно-цифровые группы через ".", "-" или "/", например "АБВГ.469535.001-01".
	decimalNumRegex = regexp.MustCompile(`^[\p{L}\d]+([.\-/][\p{L}\d]+)*$`)
	serialRegex     = regexp.MustCompile(`^[\p{L}\d][\p{L}\d\-_/.]{0,254}$`)
)

// RegisterCustomValidations регистрирует правила decimal_num и serial и учит валидатор читать null-типы.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("decimal_num", isDecimalNum); err != nil {
		return err
	}
	if err := v.RegisterValidation("serial", isSerial); err != nil {
		return err
	}
	registerNullTypes(v)
	return nil
}

func isDecimalNum(fl validator.FieldLevel) bool {
	return decimalNumRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func isSerial(fl validator.FieldLevel) bool {
	return serialRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// registerNullTypes отдаёт валидатору значение внутри null.*; невалидное значение считается пустым для omitempty.
// null.Uint64 отдаётся указателем: явный 0 остаётся заданным значением и проходит gt=0, а не пропускается omitempty.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Uint64); ok && val.Valid {
			id := val.Uint64
			return &id
		}
		return nil
	}, null.Uint64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
