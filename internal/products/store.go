package products

import (
	"context"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"gorm.io/gorm"
)

var errNotFound = apierror.NotFound(apierror.CodeNotFound, "Product not found")

// sortColumns whitelists the sortBy values clients may send.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"productName": "product_name",
	"price":       "price",
	"stock":       "stock",
	"rating":      "rating",
}

type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	SortBy   string
	Order    string
}

// orderClause falls back to newest first for unknown sort keys.
func (q ListQuery) orderClause() string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

func Create(ctx context.Context, in Input) (Product, error) {
	c, err := in.changes(true)
	if err != nil {
		return Product{}, err
	}
	p := newProduct(c)
	if err := db.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return Product{}, apierror.FromDB(err, nil, nil)
	}
	return p, nil
}

func List(ctx context.Context, q ListQuery) ([]Product, int64, error) {
	tx := db.DB.WithContext(ctx).Model(&Product{})
	if q.Search != "" {
		p := utils.LikePattern(q.Search)
		tx = tx.Where(`LOWER(product_name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`, p, p)
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, apierror.Internal(err)
	}

	list := []Product{}
	if utils.PastEnd(q.Page, q.Limit, total) {
		return list, total, nil
	}
	err := tx.Order(q.orderClause()).Order("id").
		Offset(utils.Offset(q.Page, q.Limit)).Limit(q.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	return list, total, nil
}

func Get(ctx context.Context, id string) (Product, error) {
	var p Product
	if err := db.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return Product{}, apierror.FromDB(err, errNotFound, nil)
	}
	return p, nil
}

func Update(ctx context.Context, id string, in Input) (Product, error) {
	p, err := Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	c, err := in.changes(false)
	if err != nil {
		return Product{}, err
	}
	if len(c) == 0 {
		return p, nil
	}
	if err := db.DB.WithContext(ctx).Model(&p).Updates(c).Error; err != nil {
		return Product{}, apierror.FromDB(err, errNotFound, nil)
	}
	return Get(ctx, id)
}

func Delete(ctx context.Context, id string) (Product, error) {
	p, err := Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	res := db.DB.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return Product{}, apierror.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return Product{}, errNotFound
	}
	return p, nil
}

// Categories lists every category with its product count, alphabetically.
func Categories(ctx context.Context) ([]CategoryCount, error) {
	out := []CategoryCount{}
	err := db.DB.WithContext(ctx).Model(&Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&out).Error
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return out, nil
}
