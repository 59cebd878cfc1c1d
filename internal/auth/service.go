package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"taskTracker/models"
	"taskTracker/repository"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// CredentialStore persists users and their hashed secrets.
type CredentialStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateSecurityQuestion(ctx context.Context, id int64, question, answerHash string) error
}

// Options configures a Service.
type Options struct {
	Secret     string        // HS256 signing key, required
	TokenTTL   time.Duration // defaults to DefaultTokenTTL
	BcryptCost int           // defaults to bcrypt.DefaultCost
	Logger     *log.Logger
	Now        func() time.Time // defaults to time.Now
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  Principal
}

// Service authenticates users and manages their credentials.
// Tokens are stateless; there is no revocation.
type Service struct {
	store     CredentialStore
	secret    string
	ttl       time.Duration
	cost      int
	now       func() time.Time
	logger    *log.Logger
	dummyHash string
}

// New creates a Service. The secret must be non-empty.
func New(store CredentialStore, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("credential store is required")
	}
	if opts.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", opts.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	// Compared against when the user does not exist, so login time does not reveal it.
	dummy, err := hashSecret("not-a-real-password", opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     store,
		secret:    opts.Secret,
		ttl:       opts.TokenTTL,
		cost:      opts.BcryptCost,
		now:       opts.Now,
		logger:    opts.Logger.WithPrefix("auth"),
		dummyHash: dummy,
	}, nil
}

// Register creates an account. The security answer is stored lowercased and hashed.
func (s *Service) Register(ctx context.Context, username, password, question, answer string) error {
	if username == "" || password == "" || question == "" || answer == "" {
		return ErrMissingFields
	}
	pwHash, err := hashSecret(password, s.cost)
	if err != nil {
		return err
	}
	answerHash, err := hashSecret(normalizeAnswer(answer), s.cost)
	if err != nil {
		return err
	}
	_, err = s.store.Create(ctx, &models.User{
		Username:           username,
		PasswordHash:       pwHash,
		SecurityQuestion:   question,
		SecurityAnswerHash: answerHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("register %q: %w", username, err)
	}
	s.logger.Info("user registered", "username", username)
	return nil
}

// Login checks credentials and issues a token binding the user id and name.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		matchSecret(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if !matchSecret(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	p := Principal{UserID: u.ID, Username: u.Username}
	tok, err := signToken(s.secret, p, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: p}, nil
}

// VerifyToken validates a token and returns the principal it asserts.
func (s *Service) VerifyToken(token string) (*Principal, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	p, err := parseToken(token, s.secret, s.now)
	if err != nil {
		s.logger.Debug("token rejected", "err", err)
		return nil, ErrInvalidToken
	}
	return p, nil
}

// SecurityQuestion returns the recovery question of username.
func (s *Service) SecurityQuestion(ctx context.Context, username string) (string, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "", ErrNotFound
	}
	return u.SecurityQuestion, nil
}

// ResetPassword replaces the password when answer matches the stored answer, ignoring case.
func (s *Service) ResetPassword(ctx context.Context, username, answer, newPassword string) error {
	if newPassword == "" {
		return ErrMissingFields
	}
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return ErrNotFound
	}
	if !matchSecret(u.SecurityAnswerHash, normalizeAnswer(answer)) {
		return ErrWrongAnswer
	}
	if err := s.setPassword(ctx, u.ID, newPassword); err != nil {
		return err
	}
	s.logger.Info("password reset", "user_id", u.ID)
	return nil
}

// ChangePassword replaces the password of userID after checking oldPassword.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrMissingFields
	}
	u, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if !matchSecret(u.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	return s.setPassword(ctx, u.ID, newPassword)
}

// ChangeSecurityQuestion replaces the recovery question and answer after checking password.
func (s *Service) ChangeSecurityQuestion(ctx context.Context, userID int64, password, newQuestion, newAnswer string) error {
	if newQuestion == "" || newAnswer == "" {
		return ErrMissingFields
	}
	u, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if !matchSecret(u.PasswordHash, password) {
		return ErrWrongPassword
	}
	answerHash, err := hashSecret(normalizeAnswer(newAnswer), s.cost)
	if err != nil {
		return err
	}
	if err := s.store.UpdateSecurityQuestion(ctx, u.ID, newQuestion, answerHash); err != nil {
		return fmt.Errorf("update security question: %w", err)
	}
	return nil
}

func (s *Service) requireUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) setPassword(ctx context.Context, id int64, password string) error {
	h, err := hashSecret(password, s.cost)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, id, h); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
