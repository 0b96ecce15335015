package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
)

// expiredRetention keeps an expired OTP record around long enough to report
// Expired instead of NotFound before Redis reclaims the key.
const expiredRetention = time.Hour

// mailAttempts bounds delivery retries; mail failure is never fatal to the
// issued OTP.
const mailAttempts = 3

// consumeScript is the atomic verify-and-consume step. Expiry is checked
// before the consumed flag so a late verify always reports Expired, and the
// consumed flag flips exactly once even under concurrent verifies.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 'not_found'
end
local rec = cjson.decode(raw)
if tonumber(ARGV[2]) >= tonumber(rec.expires_at) then
	return 'expired'
end
if tonumber(rec.consumed) == 1 then
	return 'consumed'
end
if rec.code ~= ARGV[1] then
	return 'mismatch'
end
rec.consumed = 1
redis.call('SET', KEYS[1], cjson.encode(rec), 'KEEPTTL')
return 'ok'
`)

// redisOTP is the stored shape of an OTP record.
type redisOTP struct {
	Email     string `json:"email"`
	Purpose   string `json:"purpose"`
	Code      string `json:"code"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
	Consumed  int    `json:"consumed"`
}

// OTPServiceImpl implements domain.OTPService using Redis persistence
type OTPServiceImpl struct {
	mailSvc     domain.MailService
	redisClient *redis.Client
	config      OTPConfig
	logger      *zap.Logger
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(mailSvc domain.MailService, redisClient *redis.Client, config OTPConfig, logger *zap.Logger) domain.OTPService {
	return &OTPServiceImpl{
		mailSvc:     mailSvc,
		redisClient: redisClient,
		config:      config,
		logger:      logger,
	}
}

func otpKey(email string, purpose domain.OTPPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func attemptsKey(email string, purpose domain.OTPPurpose) string {
	return fmt.Sprintf("otp:att:%s:%s", purpose, email)
}

func resendKey(email string, purpose domain.OTPPurpose) string {
	return fmt.Sprintf("otp:res:%s:%s", purpose, email)
}

// Issue implements domain.OTPService. Writing the new record over the old
// key is what invalidates any prior outstanding code for the same
// (email, purpose) pair.
func (s *OTPServiceImpl) Issue(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	if !purpose.Valid() {
		return nil, domain.ErrInvalidPurpose
	}

	if canResend, _, err := s.CanResend(ctx, email, purpose); err != nil {
		return nil, err
	} else if !canResend {
		return nil, domain.ErrOTPResendLimit
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := time.Now()
	record := &domain.OTPRecord{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.config.TTL),
	}

	data, err := json.Marshal(redisOTP{
		Email:     email,
		Purpose:   string(purpose),
		Code:      code,
		IssuedAt:  record.IssuedAt.Unix(),
		ExpiresAt: record.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.redisClient.Set(ctx, otpKey(email, purpose), data, s.config.TTL+expiredRetention).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}
	if err := s.redisClient.Set(ctx, attemptsKey(email, purpose), 0, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to reset attempts counter: %w", err)
	}
	if err := s.redisClient.Set(ctx, resendKey(email, purpose), 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	s.deliver(email, purpose, code)

	return record, nil
}

// deliver sends the code by mail with bounded retry. A bounce is a warning,
// not an error: the OTP stays valid and resend is the recovery path.
func (s *OTPServiceImpl) deliver(email string, purpose domain.OTPPurpose, code string) {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))

	var err error
	for i := 0; i < mailAttempts; i++ {
		if err = s.mailSvc.Send(email, subject, body); err == nil {
			return
		}
	}
	s.logger.Warn("otp mail delivery failed",
		zap.String("email", email),
		zap.String("purpose", string(purpose)),
		zap.Error(err))
}

// Verify implements domain.OTPService. Consumption is atomic in Redis, so
// two concurrent verifies with the correct code yield exactly one success.
func (s *OTPServiceImpl) Verify(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	if !purpose.Valid() {
		return domain.ErrInvalidPurpose
	}

	attempts, err := s.redisClient.Incr(ctx, attemptsKey(email, purpose)).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	if attempts == 1 {
		// A counter created here (verify without a prior issue) would
		// otherwise never expire.
		s.redisClient.Expire(ctx, attemptsKey(email, purpose), s.config.TTL+expiredRetention)
	}
	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey(email, purpose), attemptsKey(email, purpose))
		return domain.ErrOTPMaxAttempts
	}

	outcome, err := consumeScript.Run(ctx, s.redisClient,
		[]string{otpKey(email, purpose)},
		code, time.Now().Unix(),
	).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrOTPNotFound
		}
		return fmt.Errorf("failed to verify OTP: %w", err)
	}

	switch outcome {
	case "ok":
		s.redisClient.Del(ctx, attemptsKey(email, purpose))
		return nil
	case "not_found":
		return domain.ErrOTPNotFound
	case "expired":
		return domain.ErrOTPExpired
	case "consumed":
		return domain.ErrOTPConsumed
	case "mismatch":
		return domain.ErrOTPMismatch
	default:
		return fmt.Errorf("unexpected OTP verify outcome %q", outcome)
	}
}

// Resend implements domain.OTPService. Same semantics as Issue; exposed
// separately for rate-limit accounting.
func (s *OTPServiceImpl) Resend(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	return s.Issue(ctx, email, purpose)
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, email string, purpose domain.OTPPurpose) (bool, int64, error) {
	ttl, err := s.redisClient.TTL(ctx, resendKey(email, purpose)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// TTL <= 0 means the throttle key is gone.
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure numeric code.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
