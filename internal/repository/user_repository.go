package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/yearbook-api/internal/models"
)

const userColumns = "id, email, password_hash, name, user_type, college_id, profile, yearbook_answers, profile_completion, created_at, updated_at"

// UserRepository provides database access for admin and student accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns sql.ErrNoRows when no account uses the address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1 LIMIT 1"
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns sql.ErrNoRows when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1 LIMIT 1"
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// EmailExists reports whether an account already uses email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func prepareUser(user *models.User) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.YearbookAnswers == nil {
		user.YearbookAnswers = models.Answers{}
	}
}

const insertUserQuery = `INSERT INTO users (id, email, password_hash, name, user_type, college_id, profile, yearbook_answers, profile_completion, created_at, updated_at) VALUES (:id, :email, :password_hash, :name, :user_type, :college_id, :profile, :yearbook_answers, :profile_completion, :created_at, :updated_at)`

// Create inserts a single account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	prepareUser(user)
	if _, err := r.db.NamedExecContext(ctx, insertUserQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateStudents inserts the accounts in one transaction. Rows whose email is already taken are
// skipped; the accounts actually inserted are returned in input order.
func (r *UserRepository) CreateStudents(ctx context.Context, users []*models.User) (created []*models.User, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create students: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := insertUserQuery + " ON CONFLICT (email) DO NOTHING"
	for _, user := range users {
		prepareUser(user)
		res, execErr := tx.NamedExecContext(ctx, query, user)
		if execErr != nil {
			return nil, fmt.Errorf("create student %s: %w", user.Email, execErr)
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return nil, fmt.Errorf("create student %s: %w", user.Email, raErr)
		}
		if affected == 1 {
			created = append(created, user)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create students: %w", err)
	}
	return created, nil
}

// ListStudents returns students matching the filter with the total count.
func (r *UserRepository) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.User, int, error) {
	baseQuery := "FROM users WHERE user_type = $1"
	args := []interface{}{models.UserTypeStudent}
	var conditions []string

	if filter.CollegeID != "" {
		conditions = append(conditions, fmt.Sprintf("college_id = $%d", len(args)+1))
		args = append(args, filter.CollegeID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if lo, hi, ok := filter.Completion.Range(); ok {
		conditions = append(conditions, fmt.Sprintf("profile_completion BETWEEN $%d AND $%d", len(args)+1, len(args)+2))
		args = append(args, lo, hi)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]bool{
		"name":               true,
		"email":              true,
		"profile_completion": true,
		"created_at":         true,
	}
	sortBy := filter.SortBy
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", userColumns, baseQuery, sortBy, sortOrder, pageSize, (page-1)*pageSize)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return users, total, nil
}

// ListByCollege returns every student of a college ordered by name.
func (r *UserRepository) ListByCollege(ctx context.Context, collegeID string) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE user_type = $1 AND college_id = $2 ORDER BY name ASC"
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, models.UserTypeStudent, collegeID); err != nil {
		return nil, fmt.Errorf("list college students: %w", err)
	}
	return users, nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateStudentData writes profile, answers and completion together.
func (r *UserRepository) UpdateStudentData(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET profile = :profile, yearbook_answers = :yearbook_answers, profile_completion = :profile_completion, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update student data: %w", err)
	}
	return nil
}

// UpdateCompletion stores a recomputed completion score.
func (r *UserRepository) UpdateCompletion(ctx context.Context, id string, completion int) error {
	const query = `UPDATE users SET profile_completion = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, completion, time.Now().UTC()); err != nil {
		return fmt.Errorf("update completion: %w", err)
	}
	return nil
}

// DeleteStudent removes the student together with testimonials written by or about them and
// their photos. It returns sql.ErrNoRows when the student does not exist.
func (r *UserRepository) DeleteStudent(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM testimonials WHERE from_student_id = $1 OR to_student_id = $1", id); err != nil {
		return fmt.Errorf("delete student testimonials: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM photos WHERE user_id = $1", id); err != nil {
		return fmt.Errorf("delete student photos: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = $1 AND user_type = $2", id, models.UserTypeStudent)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
