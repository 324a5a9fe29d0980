package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mserebryaakov/boodai-storefront-service/internal/backend"
)

const (
	ModePickup   = "pickup"
	ModeDelivery = "delivery"
)

var phonePattern = regexp.MustCompile(`^\+996\d{9}$`)

type OrderDetails struct {
	Mode    string `json:"mode" validate:"required,oneof=pickup delivery"`
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,kgphone"`
	Address string `json:"address" validate:"required_if=Mode delivery,max=300"`
	Comment string `json:"comment" validate:"max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("kgphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(normalizePhone(fl.Field().String()))
	})
	return v
}

func normalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
}

// FieldError names one offending field of OrderDetails.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Fields  []FieldError
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate trims the details in place and checks them.
func (d *OrderDetails) Validate() error {
	d.Mode = strings.TrimSpace(d.Mode)
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = normalizePhone(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.Comment = strings.TrimSpace(d.Comment)

	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{Message: "invalid order details"}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: strings.ToLower(fe.Field()), Rule: fe.Tag()})
	}
	return ve
}

func (d *OrderDetails) contact() *backend.Contact {
	c := &backend.Contact{
		Name:    d.Name,
		Phone:   d.Phone,
		Comment: d.Comment,
	}
	if d.Mode == ModeDelivery {
		c.Address = d.Address
	}
	return c
}
