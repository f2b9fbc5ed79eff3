package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iklobato/LightAPI/internal/config"
	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/internal/utils"
	"github.com/iklobato/LightAPI/models"
)

// authService is the concrete implementation of AuthService. It owns the
// bearer token lifecycle: issuance signs a JWT and persists its record,
// verification checks structure first and the store second, revocation
// deletes the record.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenRepository persists issued tokens; a token is valid only while
	// its record exists there.
	tokenRepository store.TokenRepository

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	// Write-once at construction, read-only afterwards. When not configured
	// it is generated randomly, so a process restart makes every previously
	// issued token structurally unverifiable. That is the intended tradeoff:
	// no signing material ever touches disk.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and populated with token parameters from cfg. When cfg.TokenSignKey is
// empty a random 32-byte key is generated eagerly, before any request runs,
// so there is no first-use race on the signing material.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(users store.UserRepository, tokens store.TokenRepository, cfg config.Auth, logger *logger.Logger) (AuthService, error) {
	signKey := cfg.TokenSignKey
	if signKey == "" {
		generated, err := generateSignKey()
		if err != nil {
			return nil, fmt.Errorf("error generating token sign key: %w", err)
		}
		signKey = generated
		logger.Info().Msg("token sign key generated for this process; issued tokens will not survive a restart")
	}

	return &authService{
		userRepository:  users,
		tokenRepository: tokens,
		tokenSignKey:    signKey,
		tokenIssuer:     cfg.TokenIssuer,
		tokenDuration:   cfg.TokenDuration,
		logger:          logger,
	}, nil
}

func generateSignKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// RegisterUser creates a new user account.
//
// It validates that both Login and Password are non-empty, hashes the
// password with bcrypt, and delegates persistence to the UserRepository.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if Login or Password is empty.
//   - A wrapped storage error if the repository call fails (e.g. login
//     already taken — see store.ErrLoginAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}
	user.PasswordHash = string(hash)

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if Login or Password is empty.
//   - A wrapped storage error if the repository lookup fails (e.g. user not
//     found — see store.ErrNoUserWasFound).
//   - ErrWrongPassword if the password does not match the stored hash.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByLogin(ctx, user.Login)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user search by login failed")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(user.Password)); err != nil {
		log.Error().Str("login", user.Login).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// IssueToken signs a fresh bearer token for ownerID and persists its record.
// Concurrent issuance for the same owner produces independent valid tokens;
// there is no single-active-token constraint.
func (a *authService) IssueToken(ctx context.Context, ownerID string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if ownerID == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	signed, err := utils.GenerateJWTToken(a.tokenIssuer, ownerID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("owner", ownerID).Msg("token signing failed")
		return models.Token{}, fmt.Errorf("token signing failed: %w", err)
	}

	now := time.Now()
	token := models.Token{
		Value:     signed,
		OwnerID:   ownerID,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.tokenDuration),
	}

	persisted, err := a.tokenRepository.CreateToken(ctx, token)
	if err != nil {
		log.Err(err).Str("owner", ownerID).Msg("token persistence failed")
		return models.Token{}, fmt.Errorf("token persistence failed: %w", err)
	}

	return persisted, nil
}

// VerifyToken validates a bearer token value and resolves the identity it
// was issued for. The checks run cheapest first:
//
//  1. structural JWT validation (signature, issuer, expiry claim) — no I/O;
//  2. store lookup by value — an absent record means never issued or
//     revoked;
//  3. persisted expiry check;
//  4. owner resolution; a matching user account enriches the identity, but
//     the token itself is the source of truth for the owner.
//
// Every failure collapses into ErrTokenIsExpiredOrInvalid: callers see one
// rejection class, never which check tripped.
func (a *authService) VerifyToken(ctx context.Context, tokenValue string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	ownerID, err := utils.ValidateAndParseJWTToken(tokenValue, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Err(err).Msg("token failed structural validation")
		return models.Identity{}, ErrTokenIsExpiredOrInvalid
	}

	token, err := a.tokenRepository.FindTokenByValue(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			log.Error().Str("owner", ownerID).Msg("token not found in store: revoked or never issued")
			return models.Identity{}, ErrTokenIsExpiredOrInvalid
		}
		return models.Identity{}, fmt.Errorf("token lookup failed: %w", err)
	}

	if token.Expired(time.Now()) {
		log.Error().Str("owner", ownerID).Msg("token expired")
		return models.Identity{}, ErrTokenIsExpiredOrInvalid
	}

	identity := models.Identity{Login: token.OwnerID}
	if user, err := a.userRepository.FindUserByLogin(ctx, token.OwnerID); err == nil {
		identity = user.Identity()
	} else if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.Identity{}, fmt.Errorf("identity resolution failed: %w", err)
	}

	return identity, nil
}

// RevokeToken deletes the token record; subsequent VerifyToken calls for
// the same value fail regardless of expiry.
func (a *authService) RevokeToken(ctx context.Context, tokenValue string) error {
	if tokenValue == "" {
		return ErrInvalidDataProvided
	}

	if err := a.tokenRepository.DeleteTokenByValue(ctx, tokenValue); err != nil {
		return fmt.Errorf("token revocation failed: %w", err)
	}

	return nil
}

// SweepExpiredTokens reclaims token rows whose expiry has passed. Expiry is
// enforced at verification time; sweeping only bounds table growth.
func (a *authService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return a.tokenRepository.DeleteExpiredTokens(ctx, time.Now())
}
