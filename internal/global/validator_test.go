package global

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidator_CustomTags(t *testing.T) {
	InitValidator()

	tests := []struct {
		value string
		tag   string
		valid bool
	}{
		{"Most Imp", "priority", true},
		{"Urgent", "priority", true},
		{"high", "priority", false},
		{"BMS", "requirement", true},
		{"Lead", "requirement", false},
		{"Acme Pvt Ltd", "no_xss", true},
		{"<script>alert(1)</script>", "no_xss", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := Validate.Var(tt.value, tt.tag)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestInitValidator_StructTags(t *testing.T) {
	InitValidator()

	type form struct {
		Name     string   `validate:"required,no_xss"`
		Priority string   `validate:"omitempty,priority"`
		Items    []string `validate:"dive,requirement"`
	}

	assert.NoError(t, Validate.Struct(form{Name: "A", Items: []string{"EMS"}}))
	assert.Error(t, Validate.Struct(form{Name: "", Items: nil}))
	assert.Error(t, Validate.Struct(form{Name: "A", Priority: "Low"}))
	assert.Error(t, Validate.Struct(form{Name: "A", Items: []string{"EMS", "CRM"}}))
}

func TestInitValidator_ReportsJSONNames(t *testing.T) {
	InitValidator()

	type form struct {
		CompanyName string `json:"companyName" validate:"required"`
		City        string `form:"city" validate:"required"`
	}

	err := Validate.Struct(form{})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "companyName", verrs[0].Field())
	assert.Equal(t, "city", verrs[1].Field())
}
