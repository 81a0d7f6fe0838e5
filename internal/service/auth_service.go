package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/email"
	"ticket-hub/internal/repository"
)

// AuthService coordina registro, verificacion de email, login y reset de
// password sobre el directorio de cuentas.
type AuthService struct {
	logger      *zap.Logger
	customers   repository.CustomerRepository
	emailSender email.Sender
	otpLimiter  OTPRateLimiter

	// inyectable para tests de expiracion
	now func() time.Time
}

func NewAuthService(logger *zap.Logger, customers repository.CustomerRepository, emailSender email.Sender, otpLimiter OTPRateLimiter) *AuthService {
	if otpLimiter == nil {
		otpLimiter = NewOTPRateLimiter(otpTTL, 3)
	}
	return &AuthService{
		logger:      logger,
		customers:   customers,
		emailSender: emailSender,
		otpLimiter:  otpLimiter,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrOTPInvalid         = errors.New("otp invalid or expired")
	ErrRateLimited        = errors.New("rate limited")
)

const minPasswordLength = 8

// Register crea una cuenta inactiva y sin verificar, y emite el primer OTP
// de verificacion.
func (s *AuthService) Register(ctx context.Context, emailAddr, name, password string) (domain.Customer, error) {
	if s.customers == nil {
		return domain.Customer{}, errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	name = strings.TrimSpace(name)
	// El mismo trim que aplica Login: el hash y la comparacion tienen que ver
	// el mismo plaintext.
	password = strings.TrimSpace(password)
	if emailAddr == "" {
		return domain.Customer{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return domain.Customer{}, ErrWeakPassword
	}

	if _, err := s.customers.GetByEmail(ctx, emailAddr); err == nil {
		return domain.Customer{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Customer{}, err
	}

	customer := domain.Customer{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         name,
		PasswordHash: string(hashBytes),
		CreatedAt:    s.now(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	if err := s.issueOTP(ctx, &customer, domain.OTPIntentSignup); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// VerifyEmail consume el OTP de verificacion y activa la cuenta. El corto
// circuito "ya verificada" ocurre antes de consultar el slot OTP.
func (s *AuthService) VerifyEmail(ctx context.Context, emailAddr, code string) (domain.Customer, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return domain.Customer{}, ErrInvalidEmail
	}

	customer, err := s.getByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.EmailVerified {
		return customer, ErrAlreadyVerified
	}
	if !isValidOTPCode(code) {
		return domain.Customer{}, ErrOTPInvalid
	}
	if !otpValid(customer, code, domain.OTPIntentSignup, s.now()) {
		return domain.Customer{}, ErrOTPInvalid
	}

	// El UPDATE condicionado al hash vigente hace verificacion y limpieza
	// del slot en un solo paso; pierde contra un generate concurrente.
	consumed, err := s.customers.ConsumeOTPVerify(ctx, customer.ID, customer.OTPHash)
	if err != nil {
		return domain.Customer{}, err
	}
	if !consumed {
		return domain.Customer{}, ErrOTPInvalid
	}

	customer.EmailVerified = true
	customer.IsActive = true
	customer.OTPHash = ""
	customer.OTPExpiresAt = nil
	customer.OTPIntent = ""
	return customer, nil
}

// ResendOTP reemite el codigo de verificacion para cuentas sin verificar.
func (s *AuthService) ResendOTP(ctx context.Context, emailAddr string) (domain.Customer, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.Customer{}, ErrInvalidEmail
	}

	customer, err := s.getByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.EmailVerified {
		return customer, ErrAlreadyVerified
	}
	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return domain.Customer{}, ErrRateLimited
	}
	if err := s.issueOTP(ctx, &customer, domain.OTPIntentSignup); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// Login valida credenciales y estado de verificacion. Password incorrecto
// gana sobre cuenta sin verificar: primero 401, despues 403.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.Customer, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.Customer{}, ErrInvalidCredentials
	}

	customer, err := s.customers.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrInvalidCredentials
		}
		return domain.Customer{}, err
	}
	if customer.PasswordHash == "" {
		return domain.Customer{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return domain.Customer{}, ErrInvalidCredentials
	}
	if !customer.EmailVerified || !customer.IsActive {
		return domain.Customer{}, ErrNotVerified
	}
	return customer, nil
}

// ForgotPassword emite un OTP con intent de reset; solo para cuentas ya
// verificadas.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) (domain.Customer, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.Customer{}, ErrInvalidEmail
	}

	customer, err := s.getByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Customer{}, err
	}
	if !customer.EmailVerified {
		return domain.Customer{}, ErrNotVerified
	}
	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return domain.Customer{}, ErrRateLimited
	}
	if err := s.issueOTP(ctx, &customer, domain.OTPIntentPasswordReset); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// ResetPassword consume el OTP de reset y reescribe el hash de password.
func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) (domain.Customer, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	newPassword = strings.TrimSpace(newPassword)
	if emailAddr == "" {
		return domain.Customer{}, ErrInvalidEmail
	}
	if len(newPassword) < minPasswordLength {
		return domain.Customer{}, ErrWeakPassword
	}

	customer, err := s.getByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Customer{}, err
	}
	if !isValidOTPCode(code) {
		return domain.Customer{}, ErrOTPInvalid
	}
	if !otpValid(customer, code, domain.OTPIntentPasswordReset, s.now()) {
		return domain.Customer{}, ErrOTPInvalid
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Customer{}, err
	}
	consumed, err := s.customers.ConsumeOTPSetPassword(ctx, customer.ID, customer.OTPHash, string(hashBytes))
	if err != nil {
		return domain.Customer{}, err
	}
	if !consumed {
		return domain.Customer{}, ErrOTPInvalid
	}

	customer.PasswordHash = string(hashBytes)
	customer.OTPHash = ""
	customer.OTPExpiresAt = nil
	customer.OTPIntent = ""
	return customer, nil
}

// issueOTP genera y persiste un codigo nuevo (pisando cualquier slot previo)
// y lo envia por correo. El envio es best effort: un fallo de entrega se
// loguea pero no revierte el codigo ya persistido.
func (s *AuthService) issueOTP(ctx context.Context, customer *domain.Customer, intent domain.OTPIntent) error {
	code, hash, expiresAt, err := generateOTP(s.now())
	if err != nil {
		return err
	}
	if err := s.customers.SetOTP(ctx, customer.ID, hash, expiresAt, intent); err != nil {
		return err
	}
	customer.OTPHash = hash
	customer.OTPExpiresAt = &expiresAt
	customer.OTPIntent = intent

	if s.emailSender == nil {
		if s.logger != nil {
			s.logger.Warn("otp issued without email sender", zap.String("email", customer.Email))
		}
		return nil
	}
	subject, body := otpMessage(intent, code, expiresAt)
	if err := s.emailSender.Send(ctx, customer.Email, subject, body); err != nil {
		if s.logger != nil {
			s.logger.Warn("send otp email failed", zap.Error(err), zap.String("email", customer.Email))
		}
	}
	return nil
}

func otpMessage(intent domain.OTPIntent, code string, expiresAt time.Time) (subject, body string) {
	switch intent {
	case domain.OTPIntentPasswordReset:
		subject = "Password reset code"
	default:
		subject = "Verification code"
	}
	body = fmt.Sprintf(
		"Your code is %s.\nIt expires at %s UTC.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)
	return subject, body
}

func (s *AuthService) getByEmail(ctx context.Context, emailAddr string) (domain.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OTPRateLimiter limita la frecuencia de solicitudes de OTP por clave.
type OTPRateLimiter interface {
	Allow(key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *otpRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
