package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"pxltravel/shared/constant"
	"pxltravel/shared/failure"
)

const (
	bytesPerMegabyte = 1024 * 1024
	moneyPlaces      = 2
)

// maxMoney is the first amount a NUMERIC(12,2) column cannot hold.
var maxMoney = decimal.New(1, 10)

var validate *val.Validate

// registerImageTypeValidation accepts content types in the image/* family.
func registerImageTypeValidation(field val.FieldLevel) bool {
	contentType := strings.ToLower(strings.TrimSpace(field.Field().String()))

	return strings.HasPrefix(contentType, constant.ContentTypeImagePrefix) && len(contentType) > len(constant.ContentTypeImagePrefix)
}

// registerFileSizeValidation checks a byte count against a limit given in megabytes.
func registerFileSizeValidation(field val.FieldLevel) bool {
	var fileSize int64

	switch field.Field().Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		fileSize = field.Field().Int()
	case reflect.String:
		fileSize = int64(field.Field().Len())
	default:
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return fileSize <= int64(maxSizeMB*bytesPerMegabyte)
}

// registerMoneyValidation accepts amounts that fit NUMERIC(12,2) exactly.
func registerMoneyValidation(field val.FieldLevel) bool {
	amount, err := decimal.NewFromString(strings.TrimSpace(field.Field().String()))
	if err != nil {
		return false
	}

	return !amount.IsNegative() && amount.LessThan(maxMoney) && amount.Equal(amount.Truncate(moneyPlaces))
}

// registerCountValidation accepts whole numbers that fit an INTEGER column.
func registerCountValidation(field val.FieldLevel) bool {
	count, err := strconv.ParseInt(strings.TrimSpace(field.Field().String()), 10, 32)
	if err != nil {
		return false
	}

	return count >= 0
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == constant.Empty {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	validations := map[string]val.Func{
		"imagetype":   registerImageTypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"money":       registerMoneyValidation,
		"count":       registerCountValidation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode reads a JSON body into data without validating it.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateStruct reports only the first violated constraint, in field declaration order.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateNamedVar is ValidateVar with the field name used in the message.
func ValidateNamedVar(name string, field any, tag string) error {
	err := validate.Var(field, tag)
	if err != nil {
		return failure.BadRequestFromString(name + message(err)) //nolint:wrapcheck
	}

	return nil
}
