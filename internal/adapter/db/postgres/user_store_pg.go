package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rest-user-service/internal/domain/user"
	pkgerrors "rest-user-service/pkg/errors"
)

// UserStorePG implements the user.Store interface using PostgreSQL and GORM.
type UserStorePG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserStorePG creates a new instance of UserStorePG.
func NewUserStorePG(db *gorm.DB, log *zap.Logger) *UserStorePG {
	return &UserStorePG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:36"` // UUID in canonical text form
	Login     string    `gorm:"not null;index"`     // Account name (required)
	FirstName string    // User's given name
	LastName  string    // User's family name
	CreatedAt time.Time `gorm:"autoCreateTime;index"` // Insert timestamp, drives page order
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func schemaFromEntity(u *user.User) UserSchema {
	return UserSchema{
		ID:        u.ID.String(),
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func (m *UserSchema) toEntity() (*user.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", m.ID, err)
	}
	return &user.User{
		ID:        id,
		Login:     m.Login,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt,
	}, nil
}

// FindByID retrieves a user by ID. It returns (nil, nil) when the user
// does not exist.
func (s *UserStorePG) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserSchema
	if err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("user not found", zap.String("id", id.String()))
			return nil, nil
		}
		s.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toEntity()
}

// Insert stores a new user, assigning a fresh identifier.
func (s *UserStorePG) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	entity := *u
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}

	model := schemaFromEntity(&entity)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		s.log.Error("failed to create user in db", zap.Error(err), zap.String("login", u.Login))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user created in db", zap.String("id", model.ID))
	return model.toEntity()
}

// UpdateOrInsert overwrites the user with the given ID, inserting it
// when absent. The check and the write run in one transaction so the
// reported outcome matches what was persisted.
func (s *UserStorePG) UpdateOrInsert(ctx context.Context, u *user.User) (bool, error) {
	if u == nil {
		return false, errors.New("user cannot be nil")
	}
	if u.ID == uuid.Nil {
		return false, errors.New("user id cannot be nil")
	}

	var inserted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserSchema{}).Where("id = ?", u.ID.String()).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			model := schemaFromEntity(u)
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
			inserted = true
			return nil
		}

		// Overwrite every client-owned field; id and created_at stay
		return tx.Model(&UserSchema{}).Where("id = ?", u.ID.String()).Updates(map[string]any{
			"login":      u.Login,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
		}).Error
	})
	if err != nil {
		s.log.Error("failed to upsert user in db", zap.Error(err), zap.String("id", u.ID.String()))
		return false, fmt.Errorf("failed to upsert user: %w", err)
	}

	s.log.Info("user upserted in db", zap.String("id", u.ID.String()), zap.Bool("inserted", inserted))
	return inserted, nil
}

// Delete removes a user from the database by ID.
func (s *UserStorePG) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&UserSchema{})
	if res.Error != nil {
		s.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id.String()))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
	}

	s.log.Info("user deleted in db", zap.String("id", id.String()))
	return nil
}

// GetPage returns one page of users in creation order plus the total count.
func (s *UserStorePG) GetPage(ctx context.Context, pageNumber, pageSize int) (*user.Page, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		s.log.Error("failed to count users in db", zap.Error(err))
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	if err := s.db.WithContext(ctx).
		Order("created_at, id").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error; err != nil {
		s.log.Error("failed to list users from db", zap.Error(err),
			zap.Int("page", pageNumber), zap.Int("page_size", pageSize))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]user.User, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}

	return user.NewPage(items, total, pageNumber, pageSize), nil
}
