package domain

import "time"

// OTPIntent distingue para que flujo se emitio un codigo OTP.
type OTPIntent string

const (
	OTPIntentSignup        OTPIntent = "signup_verification"
	OTPIntentPasswordReset OTPIntent = "password_reset"
)

// Customer es la cuenta de un comprador. Los flags de rol y el slot OTP
// viven en el mismo registro; hay a lo sumo un codigo OTP vigente por cuenta.
type Customer struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	IsStaff       bool      `json:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`

	// Slot OTP compartido entre verificacion y reset: emitir un codigo nuevo
	// pisa al anterior sin importar el intent.
	OTPHash      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPIntent    OTPIntent  `json:"-"`
}
