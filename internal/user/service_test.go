package user

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	created, err := service.Register(User{Email: "j@example.com", Password: "titok123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Role != RoleCustomer {
		t.Errorf("expected role %q, got %q", RoleCustomer, created.Role)
	}
	if created.Password == "titok123" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("titok123")) != nil {
		t.Error("stored hash does not match the password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 1, Email: "j@example.com", Password: "x"}})
	service := NewService(repo)

	if _, err := service.Register(User{Email: "j@example.com", Password: "titok123"}); err != ErrEmailExists {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	service.Register(User{Email: "j@example.com", Password: "titok123"})

	if _, err := service.Authenticate("j@example.com", "titok123"); err != nil {
		t.Errorf("expected successful login, got %v", err)
	}
	if _, err := service.Authenticate("j@example.com", "rossz"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate("nincs@example.com", "titok123"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestChangePassword_ChecksOldPassword(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	created, _ := service.Register(User{Email: "j@example.com", Password: "titok123"})

	if err := service.ChangePassword(created.ID, "rossz", "ujjelszo1"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	if err := service.ChangePassword(created.ID, "titok123", "ujjelszo1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Authenticate("j@example.com", "ujjelszo1"); err != nil {
		t.Errorf("new password must work, got %v", err)
	}
}

func TestAdminUpdate_RejectsSelf(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
		{ID: 2, Email: "c@example.com", Role: RoleCustomer},
	})
	service := NewService(repo)

	if _, err := service.AdminUpdate(1, 1, "admin@example.com", RoleCustomer); err != ErrSelfUpdate {
		t.Errorf("expected ErrSelfUpdate, got %v", err)
	}

	updated, err := service.AdminUpdate(1, 2, "c@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != RoleAdmin {
		t.Errorf("expected promoted role, got %q", updated.Role)
	}
}

func TestAdminDelete_RejectsSelf(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
		{ID: 2, Email: "c@example.com", Role: RoleCustomer},
	})
	service := NewService(repo)

	if err := service.AdminDelete(1, 1); err != ErrSelfDelete {
		t.Errorf("expected ErrSelfDelete, got %v", err)
	}
	if err := service.AdminDelete(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(2); err != ErrNotFound {
		t.Errorf("expected user 2 deleted, got %v", err)
	}
}
