package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/startin-app/startin/internal/core/domain"
)

// OTPStore keeps signup challenges in Redis with the OTP validity window as
// the key TTL, so expiry needs no sweeper. A second key per pending signup
// carries the resend cooldown.
//
// Key formats:
//
//	otp:<university_id>:<email>      → JSON challenge, TTL = domain.OTPTTL
//	otp:cd:<university_id>:<email>   → "1",            TTL = domain.OTPResendCooldown
//	pwreset:<university_id>:<email>  → JSON challenge, TTL = domain.OTPTTL
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

type storedChallenge struct {
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Code         string    `json:"code"`
	Role         string    `json:"role"`
	UniversityID int64     `json:"university_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *OTPStore) Put(ctx context.Context, challenge *domain.Challenge) error {
	if err := s.setChallenge(ctx, s.key(challenge.UniversityID, challenge.Email), challenge); err != nil {
		return err
	}

	// Arm the resend window. A replaced challenge restarts it.
	cdKey := s.cooldownKey(challenge.UniversityID, challenge.Email)
	if err := s.client.Set(ctx, cdKey, "1", domain.OTPResendCooldown).Err(); err != nil {
		return fmt.Errorf("arm resend cooldown: %w", err)
	}
	return nil
}

func (s *OTPStore) setChallenge(ctx context.Context, key string, challenge *domain.Challenge) error {
	payload, err := json.Marshal(storedChallenge{
		Email:        challenge.Email,
		Name:         challenge.Name,
		Code:         challenge.Code,
		Role:         string(challenge.Role),
		UniversityID: challenge.UniversityID,
		IssuedAt:     challenge.IssuedAt,
		ExpiresAt:    challenge.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, domain.OTPTTL).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, universityID int64, email string) (*domain.Challenge, error) {
	return s.getChallenge(ctx, s.key(universityID, email))
}

func (s *OTPStore) getChallenge(ctx context.Context, key string) (*domain.Challenge, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}

	var sc storedChallenge
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}

	return &domain.Challenge{
		Email:        sc.Email,
		Name:         sc.Name,
		Code:         sc.Code,
		Role:         domain.Role(sc.Role),
		UniversityID: sc.UniversityID,
		IssuedAt:     sc.IssuedAt,
		ExpiresAt:    sc.ExpiresAt,
	}, nil
}

func (s *OTPStore) Delete(ctx context.Context, universityID int64, email string) error {
	return s.client.Del(ctx, s.key(universityID, email), s.cooldownKey(universityID, email)).Err()
}

func (s *OTPStore) PutReset(ctx context.Context, challenge *domain.Challenge) error {
	return s.setChallenge(ctx, s.resetKey(challenge.UniversityID, challenge.Email), challenge)
}

func (s *OTPStore) GetReset(ctx context.Context, universityID int64, email string) (*domain.Challenge, error) {
	return s.getChallenge(ctx, s.resetKey(universityID, email))
}

func (s *OTPStore) DeleteReset(ctx context.Context, universityID int64, email string) error {
	return s.client.Del(ctx, s.resetKey(universityID, email)).Err()
}

func (s *OTPStore) CooldownRemaining(ctx context.Context, universityID int64, email string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.cooldownKey(universityID, email)).Result()
	if err != nil {
		return 0, fmt.Errorf("cooldown ttl: %w", err)
	}
	// TTL returns negative durations for missing keys or keys without expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *OTPStore) PurgeUniversity(ctx context.Context, universityID int64) error {
	for _, pattern := range []string{
		fmt.Sprintf("otp:%d:*", universityID),
		fmt.Sprintf("otp:cd:%d:*", universityID),
		fmt.Sprintf("pwreset:%d:*", universityID),
	} {
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("purge otp keys: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan otp keys: %w", err)
		}
	}
	return nil
}

func (s *OTPStore) key(universityID int64, email string) string {
	return fmt.Sprintf("otp:%d:%s", universityID, email)
}

func (s *OTPStore) cooldownKey(universityID int64, email string) string {
	return fmt.Sprintf("otp:cd:%d:%s", universityID, email)
}

func (s *OTPStore) resetKey(universityID int64, email string) string {
	return fmt.Sprintf("pwreset:%d:%s", universityID, email)
}
