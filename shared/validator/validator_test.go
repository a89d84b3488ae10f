package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxltravel/shared/failure"
	"pxltravel/shared/validator"
)

type ValidTestStruct struct {
	Name     string `validate:"required"                   json:"name"`
	Email    string `validate:"required,email"             json:"email"`
	Age      int    `validate:"gte=0,lte=120"              json:"age"`
	Category string `validate:"oneof=regular admin guest" json:"category"`
}

type documentStruct struct {
	Passenger   string `json:"passenger_name" validate:"min=2,max=100"`
	ContentType string `json:"content_type"   validate:"imagetype"`
	Size        int64  `json:"size"           validate:"maxfilesize=5"`
}

type priceStruct struct {
	Price string `json:"price"           validate:"money"`
	Seats string `json:"available_seats" validate:"count"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *ValidTestStruct
		expectError bool
	}{
		{
			name:        "valid struct",
			data:        &ValidTestStruct{Name: "Ana Horvat", Email: "ana@example.com", Age: 25, Category: "regular"},
			expectError: false,
		},
		{
			name:        "missing required field",
			data:        &ValidTestStruct{Email: "ana@example.com", Age: 25, Category: "regular"},
			expectError: true,
		},
		{
			name:        "invalid email",
			data:        &ValidTestStruct{Name: "Ana Horvat", Email: "invalid-email", Age: 25, Category: "regular"},
			expectError: true,
		},
		{
			name:        "age out of range",
			data:        &ValidTestStruct{Name: "Ana Horvat", Email: "ana@example.com", Age: 150, Category: "regular"},
			expectError: true,
		},
		{
			name:        "invalid category",
			data:        &ValidTestStruct{Name: "Ana Horvat", Email: "ana@example.com", Age: 25, Category: "invalid"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_ReportsFirstViolationOnly(t *testing.T) {
	err := validator.ValidateStruct(&ValidTestStruct{Email: "invalid", Age: -1, Category: "invalid"})
	require.Error(t, err)

	assert.Equal(t, "name is required", err.Error())
}

func TestValidateStruct_DocumentRules(t *testing.T) {
	tests := []struct {
		name    string
		data    documentStruct
		wantMsg string
	}{
		{
			name: "valid image under the limit",
			data: documentStruct{Passenger: "Ana", ContentType: "image/jpeg", Size: 5 * 1024 * 1024},
		},
		{
			name:    "short passenger name",
			data:    documentStruct{Passenger: "A", ContentType: "image/png", Size: 10},
			wantMsg: "passenger_name must be at least 2 characters",
		},
		{
			name:    "pdf is rejected",
			data:    documentStruct{Passenger: "Ana", ContentType: "application/pdf", Size: 10},
			wantMsg: "content_type must be an image",
		},
		{
			name:    "bare image prefix is rejected",
			data:    documentStruct{Passenger: "Ana", ContentType: "image/", Size: 10},
			wantMsg: "content_type must be an image",
		},
		{
			name:    "one byte over the limit",
			data:    documentStruct{Passenger: "Ana", ContentType: "image/png", Size: 5*1024*1024 + 1},
			wantMsg: "size must not exceed 5 MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateStruct_NumericText(t *testing.T) {
	const (
		priceMsg = "price must be a non-negative amount below 10000000000 with at most 2 decimal places"
		seatsMsg = "available_seats must be a whole number from 0 to 2147483647"
	)

	tests := []struct {
		name    string
		data    priceStruct
		wantMsg string
	}{
		{name: "ordinary values", data: priceStruct{Price: "150.00", Seats: "50"}},
		{name: "zero", data: priceStruct{Price: "0", Seats: "0"}},
		{name: "largest storable values", data: priceStruct{Price: "9999999999.99", Seats: "2147483647"}},
		{name: "trailing zeros past the cents", data: priceStruct{Price: "12.500", Seats: "1"}},
		{name: "not a number", data: priceStruct{Price: "abc", Seats: "50"}, wantMsg: priceMsg},
		{name: "negative price", data: priceStruct{Price: "-1", Seats: "50"}, wantMsg: priceMsg},
		{name: "sub-cent price", data: priceStruct{Price: "150.999", Seats: "50"}, wantMsg: priceMsg},
		{name: "price past the column range", data: priceStruct{Price: "1e15", Seats: "50"}, wantMsg: priceMsg},
		{name: "price at the column limit", data: priceStruct{Price: "10000000000", Seats: "50"}, wantMsg: priceMsg},
		{name: "fractional seats", data: priceStruct{Price: "10", Seats: "4.5"}, wantMsg: seatsMsg},
		{name: "seats past int32", data: priceStruct{Price: "10", Seats: "3000000000"}, wantMsg: seatsMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateStruct_GreaterThan(t *testing.T) {
	type upload struct {
		Size int64 `json:"document_size" validate:"gt=0"`
	}

	err := validator.ValidateStruct(&upload{})
	require.Error(t, err)
	assert.Equal(t, "document_size must be greater than 0", err.Error())
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid email", field: "test@example.com", tag: "email"},
		{name: "invalid email", field: "invalid-email", tag: "email", expectError: true},
		{name: "valid date", field: "2026-05-01", tag: "datetime=2006-01-02"},
		{name: "invalid date", field: "01/05/2026", tag: "datetime=2006-01-02", expectError: true},
		{name: "valid oneof", field: "metro", tag: "oneof=bus train metro tram shuttle other"},
		{name: "invalid oneof", field: "ferry", tag: "oneof=bus train metro tram shuttle other", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNamedVar(t *testing.T) {
	err := validator.ValidateNamedVar("airline", "", "required")
	require.Error(t, err)

	assert.Equal(t, "airline is required", err.Error())
	assert.NoError(t, validator.ValidateNamedVar("airline", "Croatia Airlines", "required"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"name":"Ana","email":"ana@example.com","age":25,"category":"regular"}`},
		{name: "invalid field", jsonBody: `{"name":"Ana","email":"invalid-email","age":25,"category":"regular"}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"name":"Ana","email":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data ValidTestStruct
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode_SkipsValidation(t *testing.T) {
	var data ValidTestStruct

	require.NoError(t, validator.Decode(strings.NewReader(`{"email":"not-an-email"}`), &data))
	assert.Equal(t, "not-an-email", data.Email)

	err := validator.Decode(strings.NewReader(`{"email":`), &data)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
