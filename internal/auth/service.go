// Package auth validates signup and login against account records kept in
// the remote document store's accounts collection.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Account is the stored record for one user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithLogger sets the logger used for account events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// WithClock sets the clock used for account creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service signs users up, logs them in and deletes their accounts.
type Service struct {
	remote types.Remote
	logger *zap.Logger
	cost   int
	now    func() time.Time
}

// New creates a Service over remote. A nil remote makes every operation
// fail with types.ErrRemoteDisabled.
func New(remote types.Remote, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		logger: zap.NewNop(),
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates an account for username. The check for an existing
// account and the write are not atomic; two concurrent signups for the same
// name can both succeed and the later one wins.
func (s *Service) Signup(ctx context.Context, username, password, confirm string) (Account, error) {
	if username == "" || password == "" || confirm == "" {
		return Account{}, ErrMissingCredentials
	}
	if err := checkLength(username, password); err != nil {
		return Account{}, err
	}
	if password != confirm {
		return Account{}, ErrPasswordMismatch
	}
	if s.remote == nil {
		return Account{}, types.ErrRemoteDisabled
	}

	_, err := s.lookup(ctx, username)
	switch {
	case err == nil:
		return Account{}, ErrUsernameTaken
	case !errors.Is(err, types.ErrDocumentNotFound):
		return Account{}, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return Account{}, fmt.Errorf("hashing password: %w", err)
	}
	acct := Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	data, err := sonic.Marshal(acct)
	if err != nil {
		return Account{}, fmt.Errorf("encoding account: %w", err)
	}
	if err := s.remote.Put(ctx, types.CollectionAccounts, username, data); err != nil {
		return Account{}, fmt.Errorf("%w: storing account %q: %w", types.ErrRemote, username, err)
	}
	s.logger.Info("account created", zap.String("username", username), zap.String("id", acct.ID))
	return acct, nil
}

// Login checks username and password against the stored account.
func (s *Service) Login(ctx context.Context, username, password string) (Account, error) {
	if username == "" || password == "" {
		return Account{}, ErrMissingCredentials
	}
	if err := checkLength(username, password); err != nil {
		return Account{}, err
	}
	if s.remote == nil {
		return Account{}, types.ErrRemoteDisabled
	}

	acct, err := s.lookup(ctx, username)
	if errors.Is(err, types.ErrDocumentNotFound) {
		s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), prehash(password)); err != nil {
		s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "wrong password"))
		return Account{}, ErrInvalidCredentials
	}
	s.logger.Info("logged in", zap.String("username", username))
	return acct, nil
}

// Delete removes the account record of username. Deleting an absent
// account succeeds.
func (s *Service) Delete(ctx context.Context, username string) error {
	if username == "" {
		return ErrMissingCredentials
	}
	if s.remote == nil {
		return types.ErrRemoteDisabled
	}
	if err := s.remote.Delete(ctx, types.CollectionAccounts, username); err != nil {
		return fmt.Errorf("%w: deleting account %q: %w", types.ErrRemote, username, err)
	}
	s.logger.Info("account deleted", zap.String("username", username))
	return nil
}

// lookup fetches and decodes the account of username. An absent account is
// reported as types.ErrDocumentNotFound; other failures wrap types.ErrRemote.
func (s *Service) lookup(ctx context.Context, username string) (Account, error) {
	data, err := s.remote.Get(ctx, types.CollectionAccounts, username)
	if errors.Is(err, types.ErrDocumentNotFound) {
		return Account{}, err
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: loading account %q: %w", types.ErrRemote, username, err)
	}
	var acct Account
	if err := sonic.Unmarshal(data, &acct); err != nil {
		return Account{}, fmt.Errorf("%w: decoding account %q: %w", types.ErrRemote, username, err)
	}
	return acct, nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(prehash(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// prehash reduces the password to a fixed 64-byte hex digest, which fits
// under bcrypt's 72-byte input limit for any password length.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

func checkLength(username, password string) error {
	if utf8.RuneCountInString(username) >= MaxCredentialLength ||
		utf8.RuneCountInString(password) >= MaxCredentialLength {
		return ErrCredentialTooLong
	}
	return nil
}
