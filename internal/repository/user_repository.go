package repository

import (
	"strings"

	"github.com/misasha/hotel-reservation/internal/model"
)

// UserRepo holds all accounts in memory. User ids double as slice indices:
// they are assigned at creation and never reused, and accounts are never
// deleted. Only the service loop touches the repo, so no locking is needed.
type UserRepo struct {
	users []*model.User
}

// NewUserRepo wraps an already-loaded user list.
func NewUserRepo(users []*model.User) *UserRepo {
	return &UserRepo{users: users}
}

// FindByUsername looks an account up by exact username.
func (r *UserRepo) FindByUsername(username string) (*model.User, bool) {
	for _, u := range r.users {
		if u.Username == username {
			return u, true
		}
	}
	return nil, false
}

// GetByID resolves a user id.
func (r *UserRepo) GetByID(id int) (*model.User, bool) {
	if id < 0 || id >= len(r.users) {
		return nil, false
	}
	return r.users[id], true
}

// Create appends a new regular user. The digest must already be hashed.
func (r *UserRepo) Create(username, digest string, balance int, phone, address string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if _, exists := r.FindByUsername(username); exists {
		return nil, ErrUsernameExists
	}
	u := &model.User{
		ID:       len(r.users),
		Username: username,
		Password: digest,
		Admin:    false,
		Balance:  balance,
		Phone:    phone,
		Address:  address,
	}
	r.users = append(r.users, u)
	return u, nil
}

// All returns the client-visible projection of every account.
func (r *UserRepo) All() []model.UserInfo {
	infos := make([]model.UserInfo, 0, len(r.users))
	for _, u := range r.users {
		infos = append(infos, u.Info())
	}
	return infos
}

// Users exposes the raw list for persistence.
func (r *UserRepo) Users() []*model.User {
	return r.users
}
