package checkout

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	valid := []string{"a@b.com", "virat.kohli@bcci.co.in", "x+y@d.io"}
	invalid := []string{"a@b", "a@@b.com", "a b@c.com", "a@b.com ", "@b.com", "a@.", ""}
	for _, v := range valid {
		assert.True(t, IsEmail(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsEmail(v), v)
	}
}

func TestIsIndianMobile(t *testing.T) {
	assert.True(t, IsIndianMobile("9123456789"))
	assert.True(t, IsIndianMobile("  98765 43210 "))
	assert.True(t, IsIndianMobile("6000000000"))
	assert.False(t, IsIndianMobile("5123456789"))
	assert.False(t, IsIndianMobile("912345678"))
	assert.False(t, IsIndianMobile("91234567890"))
	assert.False(t, IsIndianMobile("+919123456789"))
}

func TestRegisteredRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type form struct {
		Name  string `validate:"filled"`
		Email string `validate:"filled,storeemail"`
		Phone string `validate:"inmobile"`
	}

	require.NoError(t, v.Struct(form{Name: "Virat", Email: "a@b.com", Phone: ""}))

	err := v.Struct(form{Name: "   ", Email: "a@b", Phone: "5123456789"})
	require.Error(t, err)
	errs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	tags := map[string]string{}
	for _, fe := range errs {
		tags[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"Name": TagFilled, "Email": TagEmail, "Phone": TagMobile}, tags)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "is required", Message(TagFilled))
	assert.Equal(t, "is invalid", Message("other"))
}
