package service

import (
	"context" // Request context
	"strings" // Email normalization
	"time"    // Birthdays

	"blog_system/internal/apperr" // Error kinds
	"blog_system/internal/cache"  // Cache prefixes
	"blog_system/internal/domain" // Persistent models
	"blog_system/internal/dto"    // Transfer objects
	"blog_system/internal/mapper" // Model to DTO mapping

	"github.com/go-faster/errors" // Error wrapping
	"github.com/sirupsen/logrus"  // Logging
	"golang.org/x/crypto/bcrypt"  // Password hashing
	"gorm.io/gorm"                // ORM
)

// UserService manages accounts. Deleting a user removes the user's posts.
type UserService struct {
	base
}

// NewUserService creates a UserService
func NewUserService(db *gorm.DB, opts Options) *UserService {
	return &UserService{base: newBase(db, opts)}
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]dto.UserDTO, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, dbError(err, "list users")
	}
	return mapper.ToUserDTOs(users), nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id uint) (dto.UserDTO, error) {
	user, err := s.find(ctx, s.db, id)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return mapper.ToUserDTO(user), nil
}

// Create stores a regular user. Duplicate emails are a conflict.
func (s *UserService) Create(ctx context.Context, req dto.UserCreateRequest) (dto.UserDTO, error) {
	user, err := s.create(ctx, req)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return mapper.ToUserDTO(user), nil
}

// Register is the self-service signup. A taken email is a bad request.
func (s *UserService) Register(ctx context.Context, req dto.UserCreateRequest) error {
	_, err := s.create(ctx, req)
	if apperr.KindOf(err) == apperr.ErrConflict {
		return apperr.New(apperr.ErrBadRequest, "User already exists")
	}
	return err
}

func (s *UserService) create(ctx context.Context, req dto.UserCreateRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	// Hash the password before storing it
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "internal error")
	}
	user := domain.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Birthday:       birthdayOf(req.Birthday),
		PasswordDigest: string(hash),
		Role:           domain.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailTaken()
		}
		return nil, dbError(err, "create user")
	}

	s.metrics.CountWrite("user", "create")
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User created")
	return &user, nil
}

// Update changes the given fields of a user. Users may edit themselves;
// admins may edit anyone.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id uint, req dto.UserUpdateRequest) (dto.UserDTO, error) {
	user, err := s.find(ctx, s.db, id)
	if err != nil {
		return dto.UserDTO{}, err
	}
	if err := authorize(actor, user.ID, "edit this user"); err != nil {
		return dto.UserDTO{}, err
	}

	changes := map[string]any{}
	if req.FirstName != nil {
		changes["first_name"] = *req.FirstName
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		changes["last_name"] = *req.LastName
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return dto.UserDTO{}, err
			}
			changes["email"] = email
			user.Email = email
		}
	}
	if req.Birthday != nil {
		user.Birthday = birthdayOf(req.Birthday)
		changes["birthday"] = *user.Birthday
	}
	if len(changes) == 0 {
		return mapper.ToUserDTO(user), nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserDTO{}, emailTaken()
		}
		return dto.UserDTO{}, dbError(err, "update user")
	}

	s.metrics.CountWrite("user", "update")
	logrus.WithFields(logrus.Fields{"user_id": id, "actor_id": actor.ID}).Info("User updated")
	return mapper.ToUserDTO(user), nil
}

// Delete removes a user with all of the user's posts and their comments.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, user.ID, "delete this user"); err != nil {
			return err
		}
		var postIDs []uint
		if err := tx.Model(&domain.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return dbError(err, "find user posts")
		}
		if err := deletePosts(tx, postIDs); err != nil {
			return err
		}
		if err := tx.Delete(user).Error; err != nil {
			return dbError(err, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("user", "delete")
	logrus.WithFields(logrus.Fields{"user_id": id, "actor_id": actor.ID}).Info("User deleted")
	return nil
}

func (s *UserService) find(ctx context.Context, tx *gorm.DB, id uint) (*domain.User, error) {
	var user domain.User
	if err := tx.WithContext(ctx).First(&user, id).Error; isNotFound(err) {
		return nil, apperr.NotFound("User", id)
	} else if err != nil {
		return nil, dbError(err, "find user")
	}
	return &user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
		return dbError(err, "check email")
	}
	if n > 0 {
		return emailTaken()
	}
	return nil
}

func emailTaken() error {
	return apperr.New(apperr.ErrConflict, "User with this email already exists")
}

func birthdayOf(d *dto.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
