package cashtrackr

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// AccountService orchestrates the account lifecycle: registration with
// email confirmation, login, the password reset token flow, and profile
// updates. Each account moves between three states encoded by the
// Confirmed flag and the Token slot:
//
//	Unconfirmed            Confirmed=false, Token set
//	Confirmed idle         Confirmed=true,  Token empty
//	Confirmed, reset open  Confirmed=true,  Token set
//
// At most one opaque token is live per account; issuing a new one silently
// invalidates the previous (last writer wins).
type AccountService struct {
	repo     RepositoryManager
	tokens   *TokenService
	notifier Notifier
	capture  TokenCapture
	logger   Logger
}

// NewAccountService returns a new AccountService wired with a log-only
// notifier; use the With* methods to swap collaborators.
func NewAccountService(repo RepositoryManager, tokens *TokenService) *AccountService {
	return &AccountService{
		repo:     repo,
		tokens:   tokens,
		notifier: NewLogNotifier("", nil),
		capture:  noopTokenCapture{},
		logger:   defLogger{},
	}
}

func (s *AccountService) WithLogger(logger Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *AccountService) WithNotifier(notifier Notifier) *AccountService {
	if notifier != nil {
		s.notifier = notifier
	}
	return s
}

// WithTokenCapture injects an observer for issued opaque tokens. Tests use
// this instead of any shared process state.
func (s *AccountService) WithTokenCapture(capture TokenCapture) *AccountService {
	if capture != nil {
		s.capture = capture
	}
	return s
}

// Register creates an unconfirmed account and dispatches the confirmation
// notification. The email uniqueness probe is a fast-path courtesy: the
// store's unique index catches the race where two registrations pass the
// probe together, and both paths surface ErrDuplicateEmail.
func (s *AccountService) Register(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)

	taken, err := s.repo.Users().EmailTaken(ctx, email, 0)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}
	if taken {
		return ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	token := s.mintOpaqueToken()

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Confirmed:    false,
	}
	user.SetToken(token)

	if _, err := s.repo.Users().Create(ctx, user); err != nil {
		return err
	}

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.SendAccountConfirmation(ctx, user.Name, user.Email, token)
	})

	return nil
}

// ConfirmAccount consumes a confirmation token. Unknown and malformed
// tokens are indistinguishable on purpose. A second submission of the same
// token fails because the first one cleared the slot.
func (s *AccountService) ConfirmAccount(ctx context.Context, token string) error {
	user, err := s.userByToken(ctx, token)
	if err != nil {
		return err
	}

	user.Confirmed = true
	user.ClearToken()

	if _, err := s.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm account")
	}

	return nil
}

// Login verifies credentials and returns a bearer credential. The
// confirmation check runs before any password work so an unconfirmed
// account never leaks whether the password was right. Login mutates no
// account state.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for login")
	}

	if !user.Confirmed {
		return "", ErrAccountNotConfirmed
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", err
	}

	credential, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("login failed to mint bearer credential: %s", err)
		return "", err
	}

	return credential, nil
}

// RequestPasswordReset issues a fresh reset token, overwriting any
// outstanding confirmation or reset token, and dispatches the reset
// notification. Re-entrant: calling it again just replaces the token.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token := s.mintOpaqueToken()
	user.SetToken(token)

	if _, err := s.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.SendPasswordReset(ctx, user.Name, user.Email, token)
	})

	return nil
}

// ValidateResetToken is a read-only probe clients call before prompting
// for the new password. No state changes.
func (s *AccountService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.userByToken(ctx, token)
	return err
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userByToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ClearToken()

	if _, err := s.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
	}

	return nil
}

// ChangePassword swaps the password for an authenticated principal after
// re-verifying the current one. Outstanding bearer credentials stay valid
// until expiry: credentials are stateless and there is no revocation list.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := ComparePasswordAndHash(currentPassword, user.PasswordHash); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash

	if _, err := s.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
	}

	return nil
}

// CheckPassword re-verifies the principal's password without changing
// anything.
func (s *AccountService) CheckPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return err
	}

	return ComparePasswordAndHash(password, user.PasswordHash)
}

// UpdateProfile changes email and name in place. The uniqueness probe
// excludes the caller's own record so keeping your current email is fine.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, email, name string) (*User, error) {
	email = strings.TrimSpace(email)

	taken, err := s.repo.Users().EmailTaken(ctx, email, userID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.Name = name

	updated, err := s.repo.Users().Update(ctx, user)
	if err != nil {
		if goerrors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update profile")
	}

	return updated, nil
}

func (s *AccountService) mintOpaqueToken() string {
	token := NewOpaqueToken()
	s.capture.Capture(token)
	return token
}

func (s *AccountService) userByToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.Users().GetByToken(ctx, token)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by token")
	}
	return user, nil
}

func (s *AccountService) userByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.Users().GetByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}
	return user, nil
}

// dispatch runs a notification outside the request path. Failure to send
// is logged, never surfaced: delivery is the Notifier's problem.
func (s *AccountService) dispatch(send func(ctx context.Context) error) {
	go func() {
		if err := send(context.Background()); err != nil {
			s.logger.Warn("notification dispatch error: %s", err)
		}
	}()
}
