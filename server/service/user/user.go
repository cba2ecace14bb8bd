// Package user implements registration, login and account management.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/lithammer/shortuuid/v4"

	mailer "github.com/usefundoo/fundoo/plugin/mail"
	"github.com/usefundoo/fundoo/server/auth"
	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/store"
)

const minPasswordLength = 8

// Service implements user operations.
type Service struct {
	store      *store.Store
	dispatcher mailer.Dispatcher
	secret     string
}

// NewService creates a user service. The secret signs access and reset
// tokens.
func NewService(st *store.Store, dispatcher mailer.Dispatcher, secret string) *Service {
	return &Service{
		store:      st,
		dispatcher: dispatcher,
		secret:     secret,
	}
}

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateRequest carries a partial account update. Nil fields are left
// unchanged.
type UpdateRequest struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// Register creates a new account and sends a welcome email.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*store.User, error) {
	if req.FirstName == "" {
		return nil, errcode.InvalidArgument("first name must not be empty")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errcode.InvalidArgument("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, errcode.InvalidArgument(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	existing, err := s.store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return nil, errcode.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, errcode.Conflict("email is already registered")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errcode.Internal("failed to hash password", err)
	}

	user, err := s.store.CreateUser(ctx, &store.User{
		UID:          shortuuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, errcode.Internal("failed to create user", err)
	}

	// Welcome mail is best-effort; registration has already succeeded.
	subject := "Welcome to Fundoo"
	body := fmt.Sprintf("<p>Hi %s, your Fundoo account is ready.</p>", user.FirstName)
	if err := s.dispatcher.Notify(ctx, user.Email, subject, body); err != nil {
		slog.Warn("failed to send welcome mail", "user", user.ID, "err", err)
	}

	return user, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *store.User, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return "", nil, errcode.Internal("failed to get user", err)
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, password) {
		// A missing account and a wrong password are indistinguishable to the
		// caller.
		return "", nil, errcode.Unauthorized("invalid email or password")
	}

	token, err := auth.GenerateAccessToken(user.ID, user.Email, s.secret)
	if err != nil {
		return "", nil, errcode.Internal("failed to sign access token", err)
	}
	return token, user, nil
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, userID int32) (*store.User, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errcode.Internal("failed to get user", err)
	}
	if user == nil {
		return nil, errcode.NotFound("user not found")
	}
	return user, nil
}

// Update applies a partial update to the account.
func (s *Service) Update(ctx context.Context, userID int32, req *UpdateRequest) (*store.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	update := &store.UpdateUser{
		ID:        userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, errcode.InvalidArgument(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, errcode.Internal("failed to hash password", err)
		}
		update.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(ctx, update)
	if err != nil {
		return nil, errcode.Internal("failed to update user", err)
	}
	return user, nil
}

// ForgotPassword mails a password reset token to the account's address. An
// unknown address is reported as success so the endpoint cannot be used to
// probe for registered emails.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return errcode.Internal("failed to get user", err)
	}
	if user == nil {
		return nil
	}

	token, err := auth.GenerateResetToken(user.ID, s.secret)
	if err != nil {
		return errcode.Internal("failed to sign reset token", err)
	}

	subject := "Fundoo password reset"
	body := fmt.Sprintf("<p>Hi %s, use this token to reset your password:</p><pre>%s</pre><p>It expires in %s.</p>",
		user.FirstName, token, auth.ResetTokenDuration)
	if err := s.dispatcher.Notify(ctx, user.Email, subject, body); err != nil {
		return errcode.Internal("failed to send reset mail", err)
	}
	return nil
}

// ResetPassword sets a new password for the account named by a valid reset
// token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := auth.ParseResetToken(token, s.secret)
	if err != nil {
		return errcode.Unauthorized("invalid or expired reset token")
	}
	if len(password) < minPasswordLength {
		return errcode.InvalidArgument(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return errcode.Internal("failed to hash password", err)
	}
	if _, err := s.store.UpdateUser(ctx, &store.UpdateUser{ID: userID, PasswordHash: &hash}); err != nil {
		return errcode.Internal("failed to update password", err)
	}
	return nil
}
