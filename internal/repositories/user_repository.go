package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"teamtrack/internal/authz"
	"teamtrack/internal/models"
)

type UserSearchFilter struct {
	Term     string
	Role     *authz.Role
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error

	// otp helpers: single-row atomic updates, last write wins
	SetOtp(userID, code string, expiresAt time.Time, deactivate bool) error
	ClearOtp(userID string, activate bool) error

	UpdatePassword(userID, passwordHash string) error
	UpdateRole(userID string, role authz.Role) error

	ListByRole(role authz.Role) ([]*models.User, error)
	CountByRole(role authz.Role) (int, error)
	Search(filter UserSearchFilter) ([]*models.User, int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, name, email, password_hash, role, phone, is_active, otp_code, otp_expiration, created_date`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (id, name, email, password_hash, role, phone, is_active, otp_code, otp_expiration, created_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.DB.Exec(q,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Phone,
		user.IsActive,
		user.OtpCode,
		user.OtpExpiration,
		user.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var (
		role   string
		phone  sql.NullString
		otp    sql.NullString
		otpExp sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role,
		&phone, &u.IsActive, &otp, &otpExp, &u.CreatedDate,
	)
	if err != nil {
		return nil, err
	}
	u.Role = authz.Role(role)
	if phone.Valid {
		u.Phone = phone.String
	}
	if otp.Valid {
		s := otp.String
		u.OtpCode = &s
	}
	if otpExp.Valid {
		t := otpExp.Time
		u.OtpExpiration = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	return u, nil
}

// GetByEmail matches case-insensitively; emails are stored lower-case
// but lookups tolerate mixed-case input.
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET name=$1, email=$2, password_hash=$3, role=$4, phone=$5,
			is_active=$6, otp_code=$7, otp_expiration=$8
		WHERE id=$9
	`
	_, err := r.DB.Exec(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Phone,
		user.IsActive,
		user.OtpCode,
		user.OtpExpiration,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) SetOtp(userID, code string, expiresAt time.Time, deactivate bool) error {
	if deactivate {
		_, err := r.DB.Exec(`
			UPDATE users SET otp_code=$1, otp_expiration=$2, is_active=FALSE
			WHERE id=$3
		`, code, expiresAt, userID)
		return err
	}
	_, err := r.DB.Exec(`
		UPDATE users SET otp_code=$1, otp_expiration=$2
		WHERE id=$3
	`, code, expiresAt, userID)
	return err
}

func (r *userRepository) ClearOtp(userID string, activate bool) error {
	if activate {
		_, err := r.DB.Exec(`
			UPDATE users SET otp_code=NULL, otp_expiration=NULL, is_active=TRUE
			WHERE id=$1
		`, userID)
		return err
	}
	_, err := r.DB.Exec(`
		UPDATE users SET otp_code=NULL, otp_expiration=NULL
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) UpdatePassword(userID, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	return err
}

func (r *userRepository) UpdateRole(userID string, role authz.Role) error {
	_, err := r.DB.Exec(`UPDATE users SET role=$1 WHERE id=$2`, string(role), userID)
	return err
}

func (r *userRepository) ListByRole(role authz.Role) ([]*models.User, error) {
	rows, err := r.DB.Query(`SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY name`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) CountByRole(role authz.Role) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE role=$1`, string(role)).Scan(&c)
	return c, err
}

func (r *userRepository) Search(filter UserSearchFilter) ([]*models.User, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if term := strings.TrimSpace(filter.Term); term != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d OR phone LIKE $%d)", argID, argID, argID))
		args = append(args, "%"+strings.ToLower(term)+"%")
		argID++
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argID))
		args = append(args, string(*filter.Role))
		argID++
	}
	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_date >= $%d", argID))
		args = append(args, *filter.FromDate)
		argID++
	}
	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_date <= $%d", argID))
		args = append(args, *filter.ToDate)
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("user search count: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	q := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY created_date DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("user search: %w", err)
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, u)
	}
	return res, total, rows.Err()
}
