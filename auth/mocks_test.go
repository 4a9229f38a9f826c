package auth_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

func TestMain(m *testing.M) {
	auth.HashCost = 4
	os.Exit(m.Run())
}

// MockUsers implements auth.Users. The embedded repository interface covers
// the generic surface we never touch in tests.
type MockUsers struct {
	mock.Mock
	repository.Repository[*auth.User]
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (*auth.User, error) {
	args := m.Called(ctx, tx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) Activate(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, tx, id)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*auth.User)
	return records, args.Error(1)
}

func (m *MockUsers) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRepositoryManager implements auth.RepositoryManager. RunInTx executes
// the callback with a zero transaction, the mocked repositories never touch it.
type MockRepositoryManager struct {
	users *MockUsers
}

func NewMockRepositoryManager(users *MockUsers) *MockRepositoryManager {
	return &MockRepositoryManager{users: users}
}

func (m *MockRepositoryManager) Validate() error { return nil }

func (m *MockRepositoryManager) MustValidate() {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Users() auth.Users { return m.users }

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(identity auth.Identity, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
	args := m.Called(identity, purpose, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string, purpose auth.TokenPurpose) (*auth.JWTClaims, error) {
	args := m.Called(token, purpose)
	claims, _ := args.Get(0).(*auth.JWTClaims)
	return claims, args.Error(1)
}

// MockNotifier implements auth.AccountNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendActivation(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey    string
	expiration    int
	activationTTL int
	resetTTL      int
	issuer        string
	audience      []string
}

func (c testConfig) GetSigningKey() string       { return c.signingKey }
func (c testConfig) GetContextKey() string       { return "user" }
func (c testConfig) GetTokenExpiration() int     { return c.expiration }
func (c testConfig) GetActivationTokenTTL() int  { return c.activationTTL }
func (c testConfig) GetPasswordResetTTL() int    { return c.resetTTL }
func (c testConfig) GetAuthScheme() string       { return "Bearer" }
func (c testConfig) GetIssuer() string           { return c.issuer }
func (c testConfig) GetAudience() []string       { return c.audience }
func (c testConfig) GetFrontendURL() string      { return "http://localhost:4200" }

var _ auth.Config = testConfig{}
