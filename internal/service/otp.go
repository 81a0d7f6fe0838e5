package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"ticket-hub/internal/domain"
)

const otpTTL = 10 * time.Minute

// generateOTP produce un codigo de 6 digitos (000000-999999) y el hash
// salteado que se persiste; el plaintext solo viaja hacia el correo.
func generateOTP(now time.Time) (code string, hash string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", time.Time{}, err
	}
	code = fmt.Sprintf("%06d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", time.Time{}, err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash = saltStr + ":" + base64.StdEncoding.EncodeToString(hashBytes[:])

	return code, hash, now.Add(otpTTL), nil
}

// verifyOTPHash compara el codigo presentado contra el hash almacenado en
// tiempo constante.
func verifyOTPHash(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

// otpValid es el predicado puro del motor OTP: slot presente, intent
// correcto, no vencido y digitos coincidentes. No consume el codigo.
func otpValid(c domain.Customer, code string, intent domain.OTPIntent, now time.Time) bool {
	if c.OTPHash == "" || c.OTPExpiresAt == nil || c.OTPIntent == "" {
		return false
	}
	if c.OTPIntent != intent {
		return false
	}
	if now.After(*c.OTPExpiresAt) {
		return false
	}
	return verifyOTPHash(code, c.OTPHash)
}

func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
