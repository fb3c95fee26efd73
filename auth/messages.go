package auth

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

// LoginMessage is the credential payload accepted at login
type LoginMessage struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (m LoginMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, validation.Length(6, 150), is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

// RegisterMessage is the payload accepted at registration
type RegisterMessage struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload, enforcing the password policy:
// at least 8 characters with at least one letter and one number.
func (m RegisterMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, validation.Length(6, 150), is.Email),
		validation.Field(&m.Password,
			validation.Required,
			validation.Length(8, 100),
			validation.Match(hasLetter).Error("must contain at least one letter"),
			validation.Match(hasDigit).Error("must contain at least one number"),
		),
	)
}

// PasswordResetRequestMessage asks for a reset token to be issued
type PasswordResetRequestMessage struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (m PasswordResetRequestMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
	)
}

// PasswordResetFinalizeMessage carries a reset token and the new password
type PasswordResetFinalizeMessage struct {
	Token    string `form:"token" json:"token"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (m PasswordResetFinalizeMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Token, validation.Required),
		validation.Field(&m.Password,
			validation.Required,
			validation.Length(8, 100),
			validation.Match(hasLetter).Error("must contain at least one letter"),
			validation.Match(hasDigit).Error("must contain at least one number"),
		),
	)
}
