package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `"userID", email, password, role, "createdAt", "updatedAt"`

func scanUser(row interface{ Scan(...interface{}) error }) (User, error) {
	var u User
	var createdAt, updatedAt sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &createdAt, &updatedAt); err != nil {
		return User{}, err
	}
	u.CreatedAt = createdAt.String
	u.UpdatedAt = updatedAt.String
	return u, nil
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY "userID"`)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE "userID" = $1`, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (email, password, role, "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5)
        RETURNING "userID"`,
		u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, update User) (User, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return User{}, err
	}

	if update.Email != "" {
		existing.Email = update.Email
	}
	if update.Role != "" {
		existing.Role = update.Role
	}
	if update.Password != "" {
		existing.Password = update.Password
	}
	if update.UpdatedAt != "" {
		existing.UpdatedAt = update.UpdatedAt
	}

	_, err = r.db.Exec(`UPDATE users SET email = $1, password = $2, role = $3, "updatedAt" = $4 WHERE "userID" = $5`,
		existing.Email, existing.Password, existing.Role, existing.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	return existing, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE "userID" = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
