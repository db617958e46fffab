package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	// Create inserts u and returns it with its id. The first user inserted into an
	// empty store comes back flagged as owner and admin.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByToken(ctx context.Context, token string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	// Update writes the mutable profile columns. Points and the owner flag are left alone.
	Update(ctx context.Context, u User) error
	// SetPoints overwrites the totals of the users present in points.
	SetPoints(ctx context.Context, points map[int64]int) error
	DemoteAdmins(ctx context.Context) error
	// ElectOwner flags the earliest remaining user as owner and admin when the
	// store has users but no owner. ok is false when nothing changed.
	ElectOwner(ctx context.Context) (elected User, ok bool, err error)
	Delete(ctx context.Context, id int64) error
}
