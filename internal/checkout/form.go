package checkout

import (
	"strings"

	"github.com/nikolayk812/storefront/internal/validation"
)

// Form is what a shopper submits to pay for the cart.
type Form struct {
	Email      string `json:"email" validate:"required,basic_email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Zip        string `json:"zip" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required,number,len=16"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,number,min=3,max=4"`
}

var cardSeparators = strings.NewReplacer(" ", "", "-", "")

// Normalized trims every field and strips spaces and dashes from the card number.
func (f Form) Normalized() Form {
	return Form{
		Email:      strings.TrimSpace(f.Email),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		Zip:        strings.TrimSpace(f.Zip),
		CardNumber: cardSeparators.Replace(strings.TrimSpace(f.CardNumber)),
		ExpiryDate: strings.TrimSpace(f.ExpiryDate),
		CVV:        strings.TrimSpace(f.CVV),
	}
}

// Validate returns one message per invalid field, empty when the form can be submitted.
func Validate(v *validation.Validator, f Form) validation.FieldErrors {
	return v.Struct(f.Normalized())
}
