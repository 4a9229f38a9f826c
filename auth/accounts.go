package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// Accounts orchestrates the account lifecycle: signup, activation, signin,
// password recovery, and self-service profile management.
type Accounts struct {
	repo         RepositoryManager
	tokens       TokenService
	notifier     AccountNotifier
	logger       Logger
	sink         ActivitySink
	photoCleaner func(path string) error
	phoneRegion  string
}

// NewAccounts returns a new account lifecycle manager
func NewAccounts(repo RepositoryManager, tokens TokenService, notifier AccountNotifier) *Accounts {
	return &Accounts{
		repo:        repo,
		tokens:      tokens,
		notifier:    notifier,
		logger:      defLogger{},
		sink:        noopActivitySink{},
		phoneRegion: "US",
	}
}

func (a *Accounts) WithLogger(logger Logger) *Accounts {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Accounts) WithActivitySink(sink ActivitySink) *Accounts {
	a.sink = normalizeActivitySink(sink)
	return a
}

// WithPhotoCleaner sets the callback that removes a deleted account's
// profile photo from storage.
func (a *Accounts) WithPhotoCleaner(cleaner func(path string) error) *Accounts {
	a.photoCleaner = cleaner
	return a
}

// WithPhoneRegion sets the default region used to parse national phone numbers.
func (a *Accounts) WithPhoneRegion(region string) *Accounts {
	if region != "" {
		a.phoneRegion = region
	}
	return a
}

// SignupInput carries the registration fields
type SignupInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone_number"`
	Address   string `json:"address"`
}

// Signup creates a new inactive account and dispatches the activation email.
// A failed dispatch leaves the account persisted, the user can request a
// resend later.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (*User, error) {
	email := NormalizeEmail(in.Email)

	if existing, err := a.repo.Users().GetByEmail(ctx, email); err == nil && existing != nil {
		a.emit(ctx, ActivityEventSignupFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": ErrDuplicateEmail.Message,
		})
		return nil, ErrDuplicateEmail
	} else if err != nil && !HasTextCode(err, TextCodeAccountNotFound) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing account")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, errors.Wrap(richErr, errors.CategoryValidation, "invalid password provided")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         RoleUser,
		IsActive:     false,
	}

	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := a.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		if IsDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "account registration failed")
	}

	a.emit(ctx, ActivityEventSignup, actorFromUser(user), user.ID.String(), map[string]any{
		"email": user.Email,
	})

	token, err := a.tokens.Issue(NewIdentityFromUser(user), PurposeActivation, 0)
	if err != nil {
		return user, errors.Wrap(err, errors.CategoryInternal, "failed to issue activation token")
	}

	if err := a.notifier.SendActivation(ctx, user.Email, token); err != nil {
		a.logger.Error("activation email dispatch failed for %s: %v", user.Email, err)
		return user, errors.Wrap(err, errors.CategoryExternal, "failed to send activation email")
	}

	return user, nil
}

// Activate redeems an activation token, flipping the account active exactly once.
func (a *Accounts) Activate(ctx context.Context, token string) (*User, error) {
	claims, err := a.tokens.Verify(token, PurposeActivation)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var user *User
	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := a.repo.Users().GetByIdentifierTx(ctx, tx, id.String())
		if err != nil {
			return err
		}

		if current.IsActive {
			return ErrAlreadyActive
		}

		user, err = a.repo.Users().ActivateTx(ctx, tx, id)
		return err
	})
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "account activation failed")
	}

	a.emit(ctx, ActivityEventActivation, actorFromUser(user), user.ID.String(), nil)

	return user, nil
}

// Signin verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *Accounts) Signin(ctx context.Context, email, password string) (string, *User, error) {
	user, err := a.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if HasTextCode(err, TextCodeAccountNotFound) {
			a.emitLoginFailure(ctx, email, ErrInvalidCredentials.Message)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during signin")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		a.emitLoginFailure(ctx, email, ErrInvalidCredentials.Message)
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		a.emitLoginFailure(ctx, email, ErrNotActivated.Message)
		return "", nil, ErrNotActivated
	}

	token, err := a.tokens.Issue(NewIdentityFromUser(user), PurposeSession, 0)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue session token")
	}

	a.emit(ctx, ActivityEventLoginSuccess, actorFromUser(user), user.ID.String(), map[string]any{
		"email": user.Email,
	})

	return token, user, nil
}

// CurrentUser resolves the account behind a session token. The value may be
// a raw token or a full "Bearer <token>" header.
func (a *Accounts) CurrentUser(ctx context.Context, raw string) (*User, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.tokens.Verify(StripBearer(raw), PurposeSession)
	if err != nil {
		if IsTokenExpired(err) {
			return nil, ErrTokenExpired
		}
		return nil, ErrUnauthenticated
	}

	user, err := a.repo.Users().GetByIdentifier(ctx, claims.UserID())
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if claims.TokenVersion != user.TokenVersion {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// ForgotPassword issues a reset token and mails the reset link. A missing
// account surfaces as AccountNotFound, mirroring the original behavior even
// though signin deliberately does not reveal existence.
func (a *Accounts) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if HasTextCode(err, TextCodeAccountNotFound) {
			return ErrAccountNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account for password reset")
	}

	token, err := a.tokens.Issue(NewIdentityFromUser(user), PurposePasswordReset, 0)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to issue password reset token")
	}

	if err := a.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
		a.logger.Error("password reset email dispatch failed for %s: %v", user.Email, err)
		return errors.Wrap(err, errors.CategoryExternal, "failed to send password reset email")
	}

	a.emit(ctx, ActivityEventPasswordResetRequest, actorFromUser(user), user.ID.String(), nil)

	return nil
}

// ResetPassword redeems a reset token and stores the new credential. The
// account's token version is bumped so outstanding sessions stop verifying.
func (a *Accounts) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := a.tokens.Verify(token, PurposePasswordReset)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ErrTokenInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return errors.Wrap(richErr, errors.CategoryValidation, "invalid password provided")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if err := a.repo.Users().ResetPassword(ctx, id, hash); err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return richErr
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to store new password")
	}

	a.emit(ctx, ActivityEventPasswordResetSuccess, ActorRef{ID: id.String(), Type: "user"}, id.String(), nil)

	return nil
}

// ChangePassword rotates the credential for a signed-in account. Unlike the
// token driven reset it requires the current password.
func (a *Accounts) ChangePassword(ctx context.Context, user *User, current, next string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if err := ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return errors.Wrap(richErr, errors.CategoryValidation, "invalid password provided")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return a.repo.Users().ResetPassword(ctx, user.ID, hash)
}

// ProfileUpdate carries the self-service profile fields. Empty fields are
// left untouched.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number"`
	Address   string `json:"address"`
	Photo     string `json:"profile_photo"`
}

// UpdateProfile applies a partial profile update, normalizing the phone
// number to E.164 when one is provided.
func (a *Accounts) UpdateProfile(ctx context.Context, user *User, in ProfileUpdate) (*User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Photo != "" {
		user.ProfilePhoto = in.Photo
	}

	if in.Phone != "" {
		num, err := phonenumbers.Parse(in.Phone, a.phoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return nil, errors.New("invalid phone number", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest)
		}
		user.Phone = phonenumbers.Format(num, phonenumbers.E164)
	}

	updated, err := a.repo.Users().UpdateProfile(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update profile")
	}

	return updated, nil
}

// Delete removes the account and cascades removal of its profile photo file.
func (a *Accounts) Delete(ctx context.Context, user *User) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if err := a.repo.Users().Remove(ctx, user.ID); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}

	if user.ProfilePhoto != "" && a.photoCleaner != nil {
		if err := a.photoCleaner(user.ProfilePhoto); err != nil {
			a.logger.Warn("failed to remove profile photo %s: %v", user.ProfilePhoto, err)
		}
	}

	return nil
}

func (a *Accounts) emit(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := a.sink.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink record error: %v", err)
	}
}

func (a *Accounts) emitLoginFailure(ctx context.Context, email, reason string) {
	a.emit(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
		"email": email,
		"error": reason,
	})
}

func actorFromUser(user *User) ActorRef {
	if user == nil {
		return ActorRef{Type: "unknown"}
	}
	return ActorRef{ID: user.ID.String(), Type: "user"}
}
