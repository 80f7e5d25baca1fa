package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/model"
)

func TestStructReportsFieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  FieldErrors
	}{
		{
			name:  "valid customer",
			input: model.CustomerInput{Name: "Ada Joinery", Phone: "+4915112345"},
		},
		{
			name:  "missing phone and bad email",
			input: model.CustomerInput{Name: "Ada", Email: "not-an-email"},
			want: FieldErrors{
				"phone": "phone is required",
				"email": "email must be a valid email address",
			},
		},
		{
			name: "order item quantity",
			input: model.OrderInput{
				CustomerID: "3",
				Items:      []model.OrderItem{{ProductID: "8", Quantity: 0}},
			},
			want: FieldErrors{"items[0].quantity": "items[0].quantity is required"},
		},
		{
			name:  "stock unit",
			input: model.StockEntry{MaterialID: "1", Quantity: 4, Unit: "barrels", Direction: "in"},
			want:  FieldErrors{"unit": "unit must be one of: pcs m m2 m3 kg l"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var fields FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestVarForForms(t *testing.T) {
	check := Var("Username", "required,alphanum,min=3")

	assert.NoError(t, check("worker01"))
	assert.EqualError(t, check(""), "Username is required")
	assert.EqualError(t, check("ab"), "Username must be at least 3 characters")
	assert.EqualError(t, check("bad name"), "Username must contain only letters and numbers")
}

func TestFieldErrorsMessageIsStable(t *testing.T) {
	fe := FieldErrors{"b": "b is required", "a": "a is invalid"}
	assert.Equal(t, "a is invalid; b is required", fe.Error())
}
