package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/bolao/internal/domain/user"
)

type UserRepository struct {
	store *Store
	lock  func() func()
}

func (r *UserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	defer r.lock()()

	st := &r.store.st
	for _, existing := range st.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	u.IsOwner = len(st.users) == 0
	if u.IsOwner {
		u.IsAdmin = true
	}

	st.nextUserID++
	now := r.store.now().UTC()
	u.ID = st.nextUserID
	u.Points = 0
	u.CreatedAt = now
	u.UpdatedAt = now
	st.users[u.ID] = u
	return u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	defer r.lock()()

	u, ok := r.store.st.users[id]
	return u, ok, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	defer r.lock()()

	for _, u := range r.store.st.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByToken(_ context.Context, token string) (user.User, bool, error) {
	defer r.lock()()

	if token == "" {
		return user.User{}, false, nil
	}
	for _, u := range r.store.st.users {
		if u.Token == token {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	defer r.lock()()

	out := make([]user.User, 0, len(r.store.st.users))
	for _, u := range r.store.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u user.User) error {
	defer r.lock()()

	current, ok := r.store.st.users[u.ID]
	if !ok {
		return nil
	}
	current.Name = u.Name
	current.PasswordHash = u.PasswordHash
	current.IsAdmin = u.IsAdmin || current.IsOwner
	current.IsVerified = u.IsVerified
	current.Token = u.Token
	current.UpdatedAt = r.store.now().UTC()
	r.store.st.users[u.ID] = current
	return nil
}

func (r *UserRepository) SetPoints(_ context.Context, points map[int64]int) error {
	defer r.lock()()

	for id, total := range points {
		u, ok := r.store.st.users[id]
		if !ok {
			continue
		}
		u.Points = total
		r.store.st.users[id] = u
	}
	return nil
}

func (r *UserRepository) DemoteAdmins(_ context.Context) error {
	defer r.lock()()

	for id, u := range r.store.st.users {
		if u.IsOwner || !u.IsAdmin {
			continue
		}
		u.IsAdmin = false
		u.UpdatedAt = r.store.now().UTC()
		r.store.st.users[id] = u
	}
	return nil
}

func (r *UserRepository) ElectOwner(_ context.Context) (user.User, bool, error) {
	defer r.lock()()

	var heir user.User
	for _, u := range r.store.st.users {
		if u.IsOwner {
			return user.User{}, false, nil
		}
		if heir.ID == 0 || u.ID < heir.ID {
			heir = u
		}
	}
	if heir.ID == 0 {
		return user.User{}, false, nil
	}

	heir.IsOwner = true
	heir.IsAdmin = true
	heir.UpdatedAt = r.store.now().UTC()
	r.store.st.users[heir.ID] = heir
	return heir, true, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()

	delete(r.store.st.users, id)
	return nil
}
