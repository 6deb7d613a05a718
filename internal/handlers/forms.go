package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field errors are keyed by the lowerCamel field name; errors that do
// not belong to a single field use the NonFieldKey.
const NonFieldKey = "_"

type SignupForm struct {
	Username        string `form:"username" binding:"required,min=3,max=32,alphanum"`
	Password        string `form:"password" binding:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type ProductForm struct {
	Name        string  `form:"name" binding:"required,min=2,max=120"`
	Price       float64 `form:"price" binding:"required,gt=0"`
	Description string  `form:"description"`
}

// OrderForm is the order-create form on the index and admin dashboards; the
// customer is picked in the form.
type OrderForm struct {
	Product  string `form:"product" binding:"required"`
	Customer string `form:"customer" binding:"required"`
	Quantity int    `form:"quantity" binding:"required,gt=0"`
	Note     string `form:"note"`
}

// StaffOrderForm has no customer field: staff-created orders always belong
// to the caller.
type StaffOrderForm struct {
	Product  string `form:"product" binding:"required"`
	Quantity int    `form:"quantity" binding:"required,gt=0"`
	Note     string `form:"note"`
}

type OrderUpdateForm struct {
	Quantity int    `form:"quantity" binding:"required,gt=0"`
	Status   string `form:"status" binding:"required,oneof=pending shipped delivered cancelled"`
	Note     string `form:"note"`
}

type ProfileEditForm struct {
	Username    string `form:"username" binding:"required,min=3,max=32,alphanum"`
	DisplayName string `form:"display_name" binding:"max=80"`
	Bio         string `form:"bio" binding:"max=500"`
}

// fieldErrors translates a binding failure into a field → message map for
// template re-render.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		out[NonFieldKey] = "invalid form data"
		return out
	}

	for _, fieldError := range validationErrors {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, fieldError.Param())
		case "eqfield":
			out[field] = "passwords do not match"
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
		case "alphanum":
			out[field] = fmt.Sprintf("%s may only contain letters and digits", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return out
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
