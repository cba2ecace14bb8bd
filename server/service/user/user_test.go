package user

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefundoo/fundoo/server/auth"
	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/store"
	storetest "github.com/usefundoo/fundoo/store/test"
)

const testSecret = "test-secret"

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

func (d *fakeDispatcher) Notify(_ context.Context, recipient, subject, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeDispatcher, *store.Store) {
	t.Helper()
	ts, _ := storetest.NewFakeStore()
	dispatcher := &fakeDispatcher{}
	return NewService(ts, dispatcher, testSecret), dispatcher, ts
}

func register(t *testing.T, svc *Service, email string) *store.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "analytical engine",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, _ := newTestService(t)

	user := register(t, svc, "ada@example.com")
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.UID)
	assert.NotEqual(t, "analytical engine", user.PasswordHash)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "ada@example.com", dispatcher.sent[0].recipient)

	_, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "analytical engine",
	})
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	for _, tc := range []struct {
		name string
		req  RegisterRequest
	}{
		{"missing first name", RegisterRequest{Email: "a@example.com", Password: "long enough pw"}},
		{"bad email", RegisterRequest{FirstName: "Ada", Email: "not-an-email", Password: "long enough pw"}},
		{"short password", RegisterRequest{FirstName: "Ada", Email: "a@example.com", Password: "short"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tc.req)
			assert.True(t, errcode.IsCode(err, errcode.ErrCodeInvalidArgument))
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	user := register(t, svc, "ada@example.com")

	token, got, err := svc.Login(ctx, "ada@example.com", "analytical engine")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	userID, err := auth.ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeUnauthorized))
	_, _, err = svc.Login(ctx, "nobody@example.com", "analytical engine")
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeUnauthorized))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	user := register(t, svc, "ada@example.com")

	name := "Augusta"
	password := "difference engine"
	updated, err := svc.Update(ctx, user.ID, &UpdateRequest{FirstName: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	_, _, err = svc.Login(ctx, "ada@example.com", "difference engine")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "ada@example.com", "analytical engine")
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeUnauthorized))
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, _ := newTestService(t)
	register(t, svc, "ada@example.com")

	require.NoError(t, svc.ForgotPassword(ctx, "ada@example.com"))
	require.Len(t, dispatcher.sent, 2) // welcome mail + reset mail
	resetMail := dispatcher.sent[1]
	assert.Equal(t, "ada@example.com", resetMail.recipient)

	token := extractToken(t, resetMail.body)
	require.NoError(t, svc.ResetPassword(ctx, token, "jacquard loom pw"))

	_, _, err := svc.Login(ctx, "ada@example.com", "jacquard loom pw")
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, _ := newTestService(t)

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, dispatcher.sent)
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	user := register(t, svc, "ada@example.com")

	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, testSecret)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, accessToken, "jacquard loom pw")
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeUnauthorized))
}

func extractToken(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, "<pre>")
	end := strings.Index(body, "</pre>")
	require.True(t, start >= 0 && end > start)
	return body[start+len("<pre>") : end]
}
