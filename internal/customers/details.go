package customers

import (
	"fmt"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Details is the delivery contact captured by the checkout form.
type Details struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Address string `json:"address" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Normalize trims surrounding whitespace from every field.
func (d Details) Normalize() Details {
	return Details{
		Name:    strings.TrimSpace(d.Name),
		Phone:   strings.TrimSpace(d.Phone),
		Email:   strings.TrimSpace(d.Email),
		Address: strings.TrimSpace(d.Address),
		Pincode: strings.TrimSpace(d.Pincode),
	}
}

// Validate reports every missing field at once. Whitespace-only values count as missing.
func (d Details) Validate() error {
	if err := validate.Struct(d.Normalize()); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer details")
		}
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "please fill in all fields").WithDetails(details)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
