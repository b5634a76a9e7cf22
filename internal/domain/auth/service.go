package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bidblab/bidblab-api/internal/domain/user"
	"github.com/bidblab/bidblab-api/internal/pkg/jwt"
	"github.com/bidblab/bidblab-api/internal/pkg/password"
)

const refreshKeyPrefix = "auth:refresh:"

// InviteConverter marks a pending invite as successful when the invited email
// registers; the referral reward becomes visible to the credit ledger.
type InviteConverter interface {
	Convert(ctx context.Context, email string) error
}

type Service struct {
	users   user.Repository
	jwt     *jwt.Service
	redis   *redis.Client
	invites InviteConverter
}

func NewService(users user.Repository, jwtService *jwt.Service, redisClient *redis.Client, invites InviteConverter) *Service {
	return &Service{users: users, jwt: jwtService, redis: redisClient, invites: invites}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenPair, *user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, nil, ErrInternal
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         "user",
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, ErrInternal
	}

	// Conversion failure must not block signup; the invite stays pending.
	if s.invites != nil {
		if err := s.invites.Convert(ctx, email); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("invite conversion failed")
		}
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return pair, u, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenPair, *user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, ErrInternal
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}
	if u.Banned {
		return nil, nil, ErrBanned
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	return pair, u, nil
}

// Refresh rotates the refresh token: the presented one is revoked whether or
// not a new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	key := refreshKeyPrefix + claims.ID
	stored, err := s.redis.GetDel(ctx, key).Result()
	if err != nil || stored != jwt.HashRefreshToken(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if u.Banned {
		return nil, ErrBanned
	}

	return s.issueTokens(ctx, u)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil // already unusable
	}

	return s.redis.Del(ctx, refreshKeyPrefix+claims.ID).Err()
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Role, u.Banned)
	if err != nil {
		return nil, ErrInternal
	}

	refresh, jti, expiresAt, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, ErrInternal
	}

	ttl := time.Until(expiresAt)
	if err := s.redis.Set(ctx, refreshKeyPrefix+jti, jwt.HashRefreshToken(refresh), ttl).Err(); err != nil {
		return nil, ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
