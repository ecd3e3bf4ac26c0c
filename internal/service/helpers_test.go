package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

type seqSecrets struct {
	mu sync.Mutex
	n  int
}

func (s *seqSecrets) NewSecret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("secret-%03d", s.n)
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Compare(plain, hashed string) bool { return hashed == "hashed:"+plain }

type sentMail struct {
	To       model.Recipient
	Token    string
	Callback string
}

type fakeNotifier struct {
	verifications []sentMail
	recoveries    []sentMail
	err           error
}

func (n *fakeNotifier) SendVerification(_ context.Context, to model.Recipient, token, callback string) error {
	if n.err != nil {
		return n.err
	}
	n.verifications = append(n.verifications, sentMail{To: to, Token: token, Callback: callback})
	return nil
}

func (n *fakeNotifier) SendRecovery(_ context.Context, to model.Recipient, token, callback string) error {
	if n.err != nil {
		return n.err
	}
	n.recoveries = append(n.recoveries, sentMail{To: to, Token: token, Callback: callback})
	return nil
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	store    *repository.MemoryStore
	notifier *fakeNotifier
	clock    *clock
	svc      *Services
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:    repository.NewMemoryStore(),
		notifier: &fakeNotifier{},
		clock:    &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	e.svc = New(e.store, plainHasher{}, &seqSecrets{}, e.notifier, e.notifier, Options{
		SingleUseCodes: true,
		Now:            e.clock.Now,
	}, nil)
	return e
}

func codeFrom(t *testing.T, redirect string) string {
	t.Helper()
	i := strings.Index(redirect, "code=")
	require.GreaterOrEqual(t, i, 0, "no code in %q", redirect)
	return redirect[i+len("code="):]
}

// registerActive registers and verifies a user, returning the code issued
// by verification.
func (e *env) registerActive(t *testing.T, username, password string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.svc.Register.Execute(ctx, RegisterInput{
		Username: username, Password: password, Email: username + "@example.com",
	}, "https://app.example.com/verified"))
	last := e.notifier.verifications[len(e.notifier.verifications)-1]
	redirect, err := e.svc.VerifyEmail.Execute(ctx, last.Token, "https://app.example.com/cb")
	require.NoError(t, err)
	return codeFrom(t, redirect)
}
