// Package account implements the account core: registration, email
// verification, credential login and the self-service profile mutations. It
// talks to the store through an injected gorm handle and reports failures as
// the typed errors in errors.go, the HTTP layer translates those into status
// codes.
package account

import (
	"context"
	"errors"
	"fmt"
	"pricecompare/account-api/internal/model"
	"pricecompare/account-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength  = 16
)

// Notifier delivers the verification mail after a registration. Delivery is
// best-effort, the service never waits for it and never retries.
type Notifier interface {
	SendVerificationMail(email, username, code string) error
}

// UserInfo is the identity-safe projection returned by every operation.
// Password hashes never leave the service.
type UserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Service struct {
	db       *gorm.DB
	argon    *security.ArgonHash
	tokens   *security.TokenIssuer
	notifier Notifier
}

func NewService(db *gorm.DB, argon *security.ArgonHash, tokens *security.TokenIssuer, notifier Notifier) *Service {
	return &Service{
		db:       db,
		argon:    argon,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Register creates a user together with its unverified verification row in a
// single transaction and hands the code off to the notifier. Duplicate
// usernames or emails surface as ErrConflict, under a concurrent race the
// unique indexes make sure exactly one insert wins.
func (s *Service) Register(ctx context.Context, username, email, password string) (UserInfo, error) {
	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to hash password, %w", err)
	}

	userID, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to generate user ID, %w", err)
	}

	code, err := security.GenerateCode()
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to generate verification code, %w", err)
	}

	user := model.User{
		ID:           userID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Verification: model.Verification{
			UserID: userID,
			Code:   code,
		},
	}

	// Create inserts the association in the same transaction, so a failed
	// verification insert rolls back the user as well
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserInfo{}, ErrConflict
		}

		return UserInfo{}, fmt.Errorf("failed to create user, %w", err)
	}

	// Best-effort dispatch: the response never waits for the mail and a
	// delivery failure doesn't roll back the created records. No retry
	go func() {
		if err := s.notifier.SendVerificationMail(email, username, code); err != nil {
			zap.L().Warn("Failed to send verification email",
				zap.String("userID", userID),
				zap.Error(err))
		}
	}()

	return UserInfo{Username: username, Email: email}, nil
}

// Authenticate checks the credentials and verification state of a user and
// issues a bearer token bound to the username.
func (s *Service) Authenticate(ctx context.Context, username, password string) (token string, err error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if !s.argon.VerifyPassword(password, user.PasswordHash) {
		return "", ErrWrongPassword
	}

	var verif model.Verification
	err = s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&verif).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No verification row means the account was never activated
			return "", ErrNotVerified
		}

		return "", fmt.Errorf("failed to look up verification, %w", err)
	}

	if !verif.IsVerified {
		return "", ErrNotVerified
	}

	token, err = s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token, %w", err)
	}

	return token, nil
}

// Redeem flips the verification flag of a user after checking the submitted
// code. The transition is one-way, redeeming twice reports ErrAlreadyVerified
// and never reverts the flag.
func (s *Service) Redeem(ctx context.Context, username, code string) error {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrVerificationNotFound
		}

		return err
	}

	var verif model.Verification
	err = s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&verif).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVerificationNotFound
		}

		return fmt.Errorf("failed to look up verification, %w", err)
	}

	if verif.Code != code {
		return ErrInvalidCode
	}

	if verif.IsVerified {
		return ErrAlreadyVerified
	}

	err = s.db.WithContext(ctx).
		Model(&model.Verification{}).
		Where("id = ?", verif.ID).
		Update("is_verified", true).
		Error
	if err != nil {
		return fmt.Errorf("failed to update verification, %w", err)
	}

	return nil
}

// UserFromToken resolves a bearer token to the user it identifies. Every
// failure mode (malformed, expired, missing subject, unknown username)
// collapses into ErrUnauthorized so callers can't probe which one occurred,
// the real reason is only logged.
func (s *Service) UserFromToken(ctx context.Context, token string) (model.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		zap.L().Debug("Rejected bearer token", zap.Error(err))
		return model.User{}, ErrUnauthorized
	}

	user, err := s.userByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}

		return model.User{}, err
	}

	return user, nil
}

// Authorize checks that caller owns the target resource. There are no roles
// and no admin override, only an exact match passes.
func Authorize(caller model.User, targetUserID string) error {
	if caller.ID != targetUserID {
		return ErrForbidden
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (UserInfo, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserInfo{}, err
	}

	return UserInfo{Username: user.Username, Email: user.Email}, nil
}

func (s *Service) UpdateUsername(ctx context.Context, id, username string) (UserInfo, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserInfo{}, err
	}

	if user.Username == username {
		return UserInfo{}, ErrSameUsername
	}

	err = s.db.WithContext(ctx).Model(&user).Update("username", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserInfo{}, ErrConflict
		}

		return UserInfo{}, fmt.Errorf("failed to update username, %w", err)
	}

	return UserInfo{Username: username, Email: user.Email}, nil
}

func (s *Service) UpdateEmail(ctx context.Context, id, email string) (UserInfo, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserInfo{}, err
	}

	if user.Email == email {
		return UserInfo{}, ErrSameEmail
	}

	err = s.db.WithContext(ctx).Model(&user).Update("email", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserInfo{}, ErrConflict
		}

		return UserInfo{}, fmt.Errorf("failed to update email, %w", err)
	}

	return UserInfo{Username: user.Username, Email: email}, nil
}

// UpdatePassword re-checks the current password before accepting the new one.
func (s *Service) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (UserInfo, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserInfo{}, err
	}

	if !s.argon.VerifyPassword(currentPassword, user.PasswordHash) {
		return UserInfo{}, ErrWrongPassword
	}

	hash, err := s.argon.GenerateFromPassword(newPassword)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to hash password, %w", err)
	}

	err = s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to update password, %w", err)
	}

	return UserInfo{Username: user.Username, Email: user.Email}, nil
}

// Delete removes a user and its verification row in one transaction, the
// verification goes first to keep referential integrity.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.userByID(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Verification{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&model.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user, %w", err)
	}

	return nil
}

func (s *Service) userByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("failed to look up user, %w", err)
	}

	return user, nil
}

func (s *Service) userByID(ctx context.Context, id string) (model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("failed to look up user, %w", err)
	}

	return user, nil
}
