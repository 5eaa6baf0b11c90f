package user

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/auth"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type mockRepo struct {
	byID map[string]*User
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	cp := *u
	m.byID[u.UserID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var out []*User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockRepo) SetActive(_ context.Context, id string, active bool) error {
	if u, ok := m.byID[id]; ok {
		u.IsActive = active
	}
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{byID: map[string]*User{}}
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ids := idgen.NewWithClock(func() time.Time { return clock })
	svc := NewService(repo, ids, testSecret, time.Hour, zerolog.Nop())
	svc.now = func() time.Time { return clock }
	return svc, repo
}

func validCreate() CreateInput {
	return CreateInput{
		Username: "reception1",
		Email:    "reception1@suryacity.example",
		FullName: "Front Desk One",
		Role:     auth.RoleReception,
		Password: "correct horse",
	}
}

func TestCreateUser(t *testing.T) {
	svc, repo := newTestService()
	u, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.UserID != "U20260314001" {
		t.Errorf("UserID = %q", u.UserID)
	}
	if !u.IsActive {
		t.Error("new user not active")
	}
	if u.PasswordHash == "correct horse" || u.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("persisted %d users", len(repo.byID))
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), validCreate()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := validCreate()
	dup.Email = "other@suryacity.example"
	if _, err := svc.Create(context.Background(), dup); !apperr.IsConflict(err) {
		t.Errorf("duplicate username: err = %v, want conflict", err)
	}

	dup = validCreate()
	dup.Username = "reception2"
	if _, err := svc.Create(context.Background(), dup); !apperr.IsConflict(err) {
		t.Errorf("duplicate email: err = %v, want conflict", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"bad role", func(in *CreateInput) { in.Role = "superuser" }},
		{"short password", func(in *CreateInput) { in.Password = "short" }},
		{"bad email", func(in *CreateInput) { in.Email = "not-an-email" }},
		{"missing username", func(in *CreateInput) { in.Username = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.Login(context.Background(), LoginInput{Username: "reception1", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}
	if res.User.UserID != u.UserID {
		t.Errorf("login user = %q", res.User.UserID)
	}

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != u.UserID || claims.Role != auth.RoleReception {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newTestService()
	u, _ := svc.Create(context.Background(), validCreate())

	if _, err := svc.Login(context.Background(), LoginInput{Username: "reception1", Password: "wrong password"}); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("wrong password: err = %v, want unauthorized", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "correct horse"}); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("unknown user: err = %v, want unauthorized", err)
	}

	if err := svc.Deactivate(context.Background(), u.UserID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Username: "reception1", Password: "correct horse"}); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("disabled account: err = %v, want unauthorized", err)
	}

	if err := svc.Activate(context.Background(), u.UserID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Username: "reception1", Password: "correct horse"}); err != nil {
		t.Errorf("reactivated login: %v", err)
	}
}
