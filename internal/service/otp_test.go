package service

import (
	"testing"
	"time"

	"ticket-hub/internal/domain"
)

func TestGenerateOTP(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code, hash, expiresAt, err := generateOTP(now)
	if err != nil {
		t.Fatalf("generate otp: %v", err)
	}
	if !isValidOTPCode(code) {
		t.Fatalf("expected 6 digit code, got %q", code)
	}
	if !expiresAt.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}
	if !verifyOTPHash(code, hash) {
		t.Fatalf("expected code to match its own hash")
	}
	if verifyOTPHash("000000", hash) && code != "000000" {
		t.Fatalf("wrong code matched hash")
	}
}

func TestOTPValid_ExpiryBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code, hash, expiresAt, err := generateOTP(created)
	if err != nil {
		t.Fatalf("generate otp: %v", err)
	}
	customer := domain.Customer{
		OTPHash:      hash,
		OTPExpiresAt: &expiresAt,
		OTPIntent:    domain.OTPIntentSignup,
	}

	if !otpValid(customer, code, domain.OTPIntentSignup, created.Add(9*time.Minute+59*time.Second)) {
		t.Fatalf("expected code valid at 9m59s")
	}
	if !otpValid(customer, code, domain.OTPIntentSignup, expiresAt) {
		t.Fatalf("expected code valid exactly at expiry")
	}
	if otpValid(customer, code, domain.OTPIntentSignup, created.Add(10*time.Minute+1*time.Second)) {
		t.Fatalf("expected code invalid at 10m01s")
	}
}

func TestOTPValid_IntentMismatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code, hash, expiresAt, err := generateOTP(now)
	if err != nil {
		t.Fatalf("generate otp: %v", err)
	}
	customer := domain.Customer{
		OTPHash:      hash,
		OTPExpiresAt: &expiresAt,
		OTPIntent:    domain.OTPIntentPasswordReset,
	}

	if otpValid(customer, code, domain.OTPIntentSignup, now) {
		t.Fatalf("reset code must not pass signup verification")
	}
	if !otpValid(customer, code, domain.OTPIntentPasswordReset, now) {
		t.Fatalf("expected reset code valid for reset intent")
	}
}

func TestOTPValid_EmptySlot(t *testing.T) {
	now := time.Now().UTC()
	if otpValid(domain.Customer{}, "123456", domain.OTPIntentSignup, now) {
		t.Fatalf("empty slot must never validate")
	}
}

func TestIsValidOTPCode(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"000000":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"":        false,
	}
	for code, want := range cases {
		if got := isValidOTPCode(code); got != want {
			t.Fatalf("isValidOTPCode(%q) = %v, want %v", code, got, want)
		}
	}
}
