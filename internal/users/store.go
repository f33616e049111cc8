package users

import (
	"context"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"gorm.io/gorm"
)

var (
	errNotFound  = apierror.NotFound(apierror.CodeNotFound, "User not found")
	errDuplicate = apierror.Duplicate(apierror.CodeDuplicateMail, "A user with this email already exists")
)

// ListQuery selects one page of users. Search matches name, email or course.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

func Create(ctx context.Context, in Input) (User, error) {
	c, err := in.changes(true)
	if err != nil {
		return User{}, err
	}
	u := newUser(c)
	if err := db.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return User{}, apierror.FromDB(err, nil, errDuplicate)
	}
	return u, nil
}

// List returns the requested page, newest first, and the total match count.
func List(ctx context.Context, q ListQuery) ([]User, int64, error) {
	tx := db.DB.WithContext(ctx).Model(&User{})
	if q.Search != "" {
		p := utils.LikePattern(q.Search)
		tx = tx.Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(course) LIKE ? ESCAPE '\'`, p, p, p)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, apierror.Internal(err)
	}

	list := []User{}
	if utils.PastEnd(q.Page, q.Limit, total) {
		return list, total, nil
	}
	err := tx.Order("created_at DESC").Order("id").
		Offset(utils.Offset(q.Page, q.Limit)).Limit(q.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	return list, total, nil
}

func Get(ctx context.Context, id string) (User, error) {
	var u User
	if err := db.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return User{}, apierror.FromDB(err, errNotFound, nil)
	}
	return u, nil
}

// Update applies the fields present in the input and returns the stored
// record. Omitted fields keep their values.
func Update(ctx context.Context, id string, in Input) (User, error) {
	u, err := Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	c, err := in.changes(false)
	if err != nil {
		return User{}, err
	}
	if len(c) == 0 {
		return u, nil
	}
	if err := db.DB.WithContext(ctx).Model(&u).Updates(c).Error; err != nil {
		return User{}, apierror.FromDB(err, errNotFound, errDuplicate)
	}
	return Get(ctx, id)
}

// Delete removes the user and returns the record as it was.
func Delete(ctx context.Context, id string) (User, error) {
	u, err := Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	res := db.DB.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return User{}, apierror.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return User{}, errNotFound
	}
	return u, nil
}

// Count returns the number of enrolled users.
func Count(ctx context.Context) (int64, error) {
	var n int64
	err := db.DB.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

