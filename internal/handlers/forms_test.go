package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestProductFormMissingPrice(t *testing.T) {
	c := formContext(t, "name=Apples")

	var form ProductForm
	err := c.ShouldBindWith(&form, binding.FormPost)
	require.Error(t, err)

	errs := fieldErrors(err)
	assert.Contains(t, errs, "price")
	assert.NotContains(t, errs, "name")
}

func TestProductFormValid(t *testing.T) {
	c := formContext(t, "name=Apples&price=3.50&description=crate")

	var form ProductForm
	require.NoError(t, c.ShouldBindWith(&form, binding.FormPost))
	assert.Equal(t, "Apples", form.Name)
	assert.Equal(t, 3.5, form.Price)
}

func TestOrderFormRequiresCustomer(t *testing.T) {
	c := formContext(t, "product=652d1c0f9d3f4a0001000000&quantity=2")

	var form OrderForm
	err := c.ShouldBindWith(&form, binding.FormPost)
	require.Error(t, err)
	assert.Contains(t, fieldErrors(err), "customer")
}

func TestStaffOrderFormHasNoCustomerField(t *testing.T) {
	c := formContext(t, "product=652d1c0f9d3f4a0001000000&quantity=2&note=rush")

	var form StaffOrderForm
	require.NoError(t, c.ShouldBindWith(&form, binding.FormPost))
	assert.Equal(t, 2, form.Quantity)
}

func TestSignupFormPasswordMismatch(t *testing.T) {
	c := formContext(t, "username=alice&password=longenough&password_confirm=different1")

	var form SignupForm
	err := c.ShouldBindWith(&form, binding.FormPost)
	require.Error(t, err)

	errs := fieldErrors(err)
	assert.Equal(t, "passwords do not match", errs["passwordConfirm"])
}

func TestOrderUpdateFormRejectsUnknownStatus(t *testing.T) {
	c := formContext(t, "quantity=1&status=lost")

	var form OrderUpdateForm
	err := c.ShouldBindWith(&form, binding.FormPost)
	require.Error(t, err)
	assert.Contains(t, fieldErrors(err), "status")
}

// A single POST body can satisfy both create forms; the dashboard picks the
// product branch purely because it binds first. Both binds must work on the
// same request.
func TestSameRequestBindsBothForms(t *testing.T) {
	body := "name=Apples&price=3.50" +
		"&product=652d1c0f9d3f4a0001000000&customer=652d1c0f9d3f4a0002000000&quantity=1"
	c := formContext(t, body)

	var productForm ProductForm
	require.NoError(t, c.ShouldBindWith(&productForm, binding.FormPost))

	var orderForm OrderForm
	require.NoError(t, c.ShouldBindWith(&orderForm, binding.FormPost))
	assert.Equal(t, 1, orderForm.Quantity)
}

func TestFieldErrorsNonValidatorError(t *testing.T) {
	c := formContext(t, "quantity=not-a-number")

	var form OrderUpdateForm
	err := c.ShouldBindWith(&form, binding.FormPost)
	require.Error(t, err)

	errs := fieldErrors(err)
	assert.Equal(t, "invalid form data", errs[NonFieldKey])
}
