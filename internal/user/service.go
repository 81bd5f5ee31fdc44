package user

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []User {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Register creates a new customer account. The role is always customer here;
// promoting accounts to admin goes through AdminUpdate.
func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	u.Role = RoleCustomer
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

// UpdateEmail changes the email on the caller's own profile.
func (s *Service) UpdateEmail(id int, email string) (User, error) {
	return s.repo.Update(id, User{Email: email})
}

// ChangePassword verifies the old password before storing a hash of the new one.
func (s *Service) ChangePassword(id int, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)) != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.repo.Update(id, User{Password: string(hashed)})
	return err
}

// AdminUpdate lets an admin change another account's email and role. Acting on
// the admin's own account is rejected so an admin cannot demote themselves.
func (s *Service) AdminUpdate(actorID, targetID int, email, role string) (User, error) {
	if actorID == targetID {
		return User{}, ErrSelfUpdate
	}
	return s.repo.Update(targetID, User{Email: email, Role: role})
}

// AdminDelete removes an account, except the admin's own.
func (s *Service) AdminDelete(actorID, targetID int) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	return s.repo.Delete(targetID)
}
