package application

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager-api/internal/domain/repository/repotest"
	"github.com/oksasatya/go-task-manager-api/pkg/helpers"
	"github.com/oksasatya/go-task-manager-api/pkg/mailer"
)

func newUserService(repo *repotest.UserRepo, pub *capturePublisher) *UserService {
	var p JobPublisher
	if pub != nil {
		p = pub
	}
	return NewUserService(repo, helpers.NewJWTManager("test-secret"), p, nil, nil, "", nil, true)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", userName: "alice", email: "Alice@Example.com", password: "s3cure!pw"},
		{name: "short password", userName: "alice", email: "alice@example.com", password: "abc", wantErr: ErrValidation},
		{name: "forbidden password", userName: "alice", email: "alice@example.com", password: "mypassword1", wantErr: ErrValidation},
		{name: "bad email", userName: "alice", email: "not-an-email", password: "s3cure!pw", wantErr: ErrValidation},
		{name: "missing name", userName: "  ", email: "alice@example.com", password: "s3cure!pw", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := repotest.NewUserRepo()
			pub := &capturePublisher{}
			svc := newUserService(repo, pub)

			u, token, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.published())
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, token)

			// email is case-normalized, password never kept in plain
			assert.Equal(t, "alice@example.com", u.Email)
			assert.NotEqual(t, tt.password, u.Password)
			assert.True(t, helpers.CompareHashAndPassword(u.Password, tt.password))

			// the fresh token authenticates
			got, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)

			// welcome email fired
			jobs := pub.published()
			require.Len(t, jobs, 1)
			job := jobs[0].(mailer.EmailJob)
			assert.Equal(t, mailer.TemplateWelcome, job.Template)
			assert.Equal(t, "alice@example.com", job.To)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)

	// same address, different case
	_, _, err = svc.Register(context.Background(), "mallory", "ALICE@example.com", "s3cure!pw")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "alice@example.com", "s3cure!pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	// wrong password and unknown email fail with the same error
	_, errWrongPw := svc.Authenticate(context.Background(), "alice@example.com", "wrongpass")
	_, errNoUser := svc.Authenticate(context.Background(), "nobody@example.com", "wrongpass")
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPw, errNoUser)
}

func TestTokenLifecycle(t *testing.T) {
	t.Parallel()
	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)
	ctx := context.Background()

	u, first, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, "alice@example.com", "s3cure!pw")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// logout revokes only the used token
	require.NoError(t, svc.Logout(ctx, u.ID, first))
	_, err = svc.ValidateToken(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ValidateToken(ctx, second)
	assert.NoError(t, err)

	// logoutAll revokes the rest
	require.NoError(t, svc.LogoutAll(ctx, u.ID))
	_, err = svc.ValidateToken(ctx, second)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	t.Parallel()
	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)

	// signed with a different secret
	forged, err := helpers.NewJWTManager("other-secret").GenerateToken(u.ID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// well-signed but never issued (not in the stored set)
	orphan, err := svc.JWT.GenerateToken(u.ID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, orphan)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func patchOf(t *testing.T, kv map[string]any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(kv)
	require.NoError(t, err)
	var patch map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &patch))
	return patch
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("whitelisted fields applied", func(t *testing.T) {
		t.Parallel()
		repo := repotest.NewUserRepo()
		svc := newUserService(repo, nil)
		u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
		require.NoError(t, err)

		got, err := svc.UpdateProfile(ctx, u.ID, patchOf(t, map[string]any{
			"name": "Alice B", "age": 31, "email": "Alice.B@Example.com",
		}))
		require.NoError(t, err)
		assert.Equal(t, "Alice B", got.Name)
		assert.Equal(t, 31, got.Age)
		assert.Equal(t, "alice.b@example.com", got.Email)
	})

	t.Run("password patch re-hashes", func(t *testing.T) {
		t.Parallel()
		repo := repotest.NewUserRepo()
		svc := newUserService(repo, nil)
		u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
		require.NoError(t, err)

		got, err := svc.UpdateProfile(ctx, u.ID, patchOf(t, map[string]any{"password": "newsecret"}))
		require.NoError(t, err)
		assert.NotEqual(t, "newsecret", got.Password)
		assert.True(t, helpers.CompareHashAndPassword(got.Password, "newsecret"))

		_, err = svc.Authenticate(ctx, "alice@example.com", "newsecret")
		assert.NoError(t, err)
	})

	t.Run("disallowed key rejects whole patch", func(t *testing.T) {
		t.Parallel()
		repo := repotest.NewUserRepo()
		svc := newUserService(repo, nil)
		u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, u.ID, patchOf(t, map[string]any{
			"name": "Changed", "id": "hax",
		}))
		require.ErrorIs(t, err, ErrDisallowedField)

		// nothing was applied
		unchanged, err := svc.GetProfile(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", unchanged.Name)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		t.Parallel()
		repo := repotest.NewUserRepo()
		svc := newUserService(repo, nil)
		u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, u.ID, patchOf(t, map[string]any{"password": "password123"}))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		t.Parallel()
		repo := repotest.NewUserRepo()
		svc := newUserService(repo, nil)
		_, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
		require.NoError(t, err)
		bob, _, err := svc.Register(ctx, "bob", "bob@example.com", "s3cure!pw")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, bob.ID, patchOf(t, map[string]any{"email": "alice@example.com"}))
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestDeleteAccountCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userRepo := repotest.NewUserRepo()
	taskRepo := repotest.NewTaskRepo()
	userRepo.Tasks = taskRepo

	pub := &capturePublisher{}
	userSvc := newUserService(userRepo, pub)
	taskSvc := NewTaskService(taskRepo, nil, nil)

	u, token, err := userSvc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)
	task, err := taskSvc.Create(ctx, u.ID, "doomed task", false)
	require.NoError(t, err)

	gone, err := userSvc.DeleteAccount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gone.ID)

	// user, tokens and owned tasks are all gone
	_, err = userSvc.GetProfile(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = userSvc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = taskSvc.Get(ctx, u.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// cancellation email fired
	jobs := pub.published()
	require.Len(t, jobs, 1)
	assert.Equal(t, mailer.TemplateCancellation, jobs[0].(mailer.EmailJob).Template)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatarLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)
	u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)

	// no avatar yet
	_, err = svc.GetAvatar(ctx, u.ID)
	require.ErrorIs(t, err, ErrAvatarNotFound)

	// upload gets normalized to a square PNG
	raw := testPNG(t, 40, 30)
	require.NoError(t, svc.UploadAvatar(ctx, u.ID, bytes.NewReader(raw), "me.png", int64(len(raw))))

	stored, err := svc.GetAvatar(ctx, u.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, helpers.AvatarSize, img.Bounds().Dx())
	assert.Equal(t, helpers.AvatarSize, img.Bounds().Dy())

	// clear removes it
	require.NoError(t, svc.ClearAvatar(ctx, u.ID))
	_, err = svc.GetAvatar(ctx, u.ID)
	assert.ErrorIs(t, err, ErrAvatarNotFound)
}

func TestUploadAvatarRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := repotest.NewUserRepo()
	svc := newUserService(repo, nil)
	u, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)

	raw := testPNG(t, 10, 10)

	tests := []struct {
		name     string
		filename string
		data     []byte
		size     int64
		wantErr  error
	}{
		{name: "oversized", filename: "big.png", data: raw, size: MaxAvatarBytes + 1, wantErr: ErrAvatarTooLarge},
		{name: "bad extension", filename: "avatar.gif", data: raw, size: int64(len(raw)), wantErr: ErrAvatarBadType},
		{name: "not an image", filename: "a.png", data: []byte("plain text"), size: 10, wantErr: ErrValidation},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UploadAvatar(ctx, u.ID, bytes.NewReader(tt.data), tt.filename, tt.size)
			require.ErrorIs(t, err, tt.wantErr)

			// rejected uploads leave no state behind
			_, err = svc.GetAvatar(ctx, u.ID)
			assert.ErrorIs(t, err, ErrAvatarNotFound)
		})
	}
}

func TestEmailFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	repo := repotest.NewUserRepo()
	pub := &capturePublisher{err: assert.AnError}
	svc := newUserService(repo, pub)

	_, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cure!pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
