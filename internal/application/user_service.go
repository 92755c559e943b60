package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager-api/internal/domain/repository"
	"github.com/oksasatya/go-task-manager-api/pkg/helpers"
	"github.com/oksasatya/go-task-manager-api/pkg/mailer"
	"github.com/oksasatya/go-task-manager-api/pkg/validation"
)

// MaxAvatarBytes caps the accepted upload size.
const MaxAvatarBytes = 1_000_000

// allowed keys for PATCH /users/me
var userPatchFields = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}

// JobPublisher enqueues fire-and-forget jobs (satisfied by helpers.RabbitPublisher).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService owns the account lifecycle: registration, credentials,
// the session token set, profile patches, avatar bytes and cascade delete.
type UserService struct {
	Repo        repo.UserRepository
	JWT         *helpers.JWTManager
	Pub         JobPublisher
	Logger      *logrus.Logger
	GCS         *storage.Client
	GCSBucket   string
	Index       *TaskIndexer
	MailEnabled bool
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, pub JobPublisher, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, index *TaskIndexer, mailEnabled bool) *UserService {
	return &UserService{
		Repo:        r,
		JWT:         jwt,
		Pub:         pub,
		Logger:      logger,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Index:       index,
		MailEnabled: mailEnabled,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates and persists a new account, issues its first session
// token and fires the welcome email. The email send is best-effort and can
// never fail the registration.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !validation.CheckEmail(email) {
		return nil, "", fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if err := validation.CheckPassword(password); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}

	s.publishEmail(ctx, mailer.WelcomeJob(u.Email, u.Name))
	return u, token, nil
}

// Authenticate looks up the account by email and checks the password.
// An unknown email burns the same bcrypt comparison as a wrong password,
// and both failures are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.CompareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a fresh session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// IssueToken signs a token for the user and appends it to the stored set.
func (s *UserService) IssueToken(ctx context.Context, userID string) (string, error) {
	token, err := s.JWT.GenerateToken(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("generate token failed")
		}
		return "", err
	}
	if err := s.Repo.AddToken(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateToken resolves a bearer token to its user. A token is accepted
// only when the signature verifies, the user still exists and the token is
// still present in the user's set (i.e. not revoked).
func (s *UserService) ValidateToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	ok, err := s.Repo.HasToken(ctx, u.ID, token)
	if err != nil || !ok {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Logout revokes the single token used by the current session.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	return s.Repo.RemoveToken(ctx, userID, token)
}

// LogoutAll clears the whole token set, invalidating every device.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.Repo.RemoveAllTokens(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies a whitelisted patch to the caller's account.
// Any key outside {name,email,password,age} rejects the whole patch.
// A new password is re-validated and re-hashed before persisting.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch map[string]json.RawMessage) (*entity.User, error) {
	for key := range patch {
		if _, ok := userPatchFields[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrDisallowedField, key)
		}
	}

	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if raw, ok := patch["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("%w: name must be a string", ErrValidation)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		u.Name = name
	}
	if raw, ok := patch["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil {
			return nil, fmt.Errorf("%w: email must be a string", ErrValidation)
		}
		email = normalizeEmail(email)
		if !validation.CheckEmail(email) {
			return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
		}
		if email != u.Email {
			if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other != nil && other.ID != u.ID {
				return nil, ErrEmailTaken
			}
			u.Email = email
		}
	}
	if raw, ok := patch["password"]; ok {
		var plain string
		if err := json.Unmarshal(raw, &plain); err != nil {
			return nil, fmt.Errorf("%w: password must be a string", ErrValidation)
		}
		if err := validation.CheckPassword(plain); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		hash, err := helpers.HashPassword(plain)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if raw, ok := patch["age"]; ok {
		var age int
		if err := json.Unmarshal(raw, &age); err != nil {
			return nil, fmt.Errorf("%w: age must be a number", ErrValidation)
		}
		u.Age = age
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes the user together with all owned tasks in one
// transaction, wipes the search index and fires the cancellation email.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteCascade(ctx, userID); err != nil {
		return nil, err
	}
	s.Index.DeleteByOwner(ctx, userID)
	s.publishEmail(ctx, mailer.CancellationJob(u.Email, u.Name))
	return u, nil
}

// UploadAvatar validates the upload, normalizes it into a square PNG
// thumbnail and stores the bytes on the account. When a GCS bucket is
// configured the thumbnail is also mirrored there; the mirror is
// best-effort and the database copy stays canonical.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename string, size int64) error {
	if size > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
	default:
		return ErrAvatarBadType
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return err
	}
	if len(raw) > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}

	thumb, err := helpers.NormalizeAvatar(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: unreadable image data", ErrValidation)
	}

	url := ""
	if s.GCS != nil && s.GCSBucket != "" {
		objectPath := "avatars/" + userID + ".png"
		mirrored, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, "image/png", bytes.NewReader(thumb))
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar mirror upload failed")
			}
		} else {
			url = mirrored
		}
	}

	if err := s.Repo.UpdateAvatar(ctx, userID, thumb, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	avatar, err := s.Repo.GetAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, err
	}
	return avatar, nil
}

func (s *UserService) ClearAvatar(ctx context.Context, userID string) error {
	if s.GCS != nil && s.GCSBucket != "" {
		if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, "avatars/"+userID+".png"); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar mirror delete failed")
		}
	}
	return s.Repo.ClearAvatar(ctx, userID)
}

// publishEmail enqueues a notification job. Failures are logged and
// swallowed; notifications never fail the triggering request.
func (s *UserService) publishEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
