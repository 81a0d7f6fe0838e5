package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCR atomico con expiracion en la primera pasada: una ventana fija por
// direccion de correo.
const otpAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// redisOTPRateLimiter limita resend-otp y forgot-password por email cuando
// hay redis disponible; sin redis el servicio cae al limiter en memoria.
type redisOTPRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisOTPRateLimiter(client *redis.Client, window time.Duration, max int) OTPRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisOTPRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "otp:rl:",
	}
}

// Allow es fail-open: si redis no responde, el envio de OTP no se bloquea.
func (l *redisOTPRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	// La clave es el email ya normalizado por el servicio; se repite la
	// normalizacion por si llega cruda.
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, otpAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
