// Package dashboard computes the summary widgets shown on the admin home page.
package dashboard

import (
	"context"
	"fmt"

	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/products"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// widgetSize is the length of the recent and top-rated lists.
const widgetSize = 5

// Breakdown is one group of a breakdown widget, e.g. {"course": "Math", "count": 3}.
type Breakdown map[string]any

type Stats struct {
	TotalUsers        int64              `json:"totalUsers"`
	TotalProducts     int64              `json:"totalProducts"`
	TotalCategories   int64              `json:"totalCategories"`
	InventoryValue    string             `json:"inventoryValue"`
	AverageRating     float64            `json:"averageRating"`
	CourseBreakdown   []Breakdown        `json:"courseBreakdown"`
	CategoryBreakdown []Breakdown        `json:"categoryBreakdown"`
	StatusBreakdown   []Breakdown        `json:"statusBreakdown"`
	RecentEnrollments []users.User       `json:"recentEnrollments"`
	TopRatedProducts  []products.Product `json:"topRatedProducts"`
}

// Compute runs the widget queries concurrently. The first failure cancels the
// rest.
func Compute(ctx context.Context) (Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := users.Count(ctx)
		s.TotalUsers = n
		return err
	})
	g.Go(func() error {
		return db.DB.WithContext(ctx).Model(&products.Product{}).Count(&s.TotalProducts).Error
	})
	g.Go(func() error {
		return db.DB.WithContext(ctx).Model(&products.Product{}).
			Distinct("category").Count(&s.TotalCategories).Error
	})
	g.Go(func() (err error) {
		s.InventoryValue, s.AverageRating, err = inventory(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.CourseBreakdown, err = breakdown(ctx, &users.User{}, "course")
		return err
	})
	g.Go(func() (err error) {
		s.CategoryBreakdown, err = breakdown(ctx, &products.Product{}, "category")
		return err
	})
	g.Go(func() (err error) {
		s.StatusBreakdown, err = breakdown(ctx, &products.Product{}, "status")
		return err
	})
	g.Go(func() error {
		s.RecentEnrollments = []users.User{}
		return db.DB.WithContext(ctx).Order("created_at DESC").Order("id").
			Limit(widgetSize).Find(&s.RecentEnrollments).Error
	})
	g.Go(func() error {
		s.TopRatedProducts = []products.Product{}
		return db.DB.WithContext(ctx).Order("rating DESC").Order("product_name").
			Limit(widgetSize).Find(&s.TopRatedProducts).Error
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return s, nil
}

// breakdown counts rows per distinct value of column, largest group first.
// Each entry is keyed by the column name.
func breakdown(ctx context.Context, model any, column string) ([]Breakdown, error) {
	var rows []struct {
		Value string
		N     int64
	}
	err := db.DB.WithContext(ctx).Model(model).
		Select(column + " AS value, COUNT(*) AS n").
		Group(column).
		Order("n DESC").Order("value").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Breakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, Breakdown{column: r.Value, "count": r.N})
	}
	return out, nil
}

// inventory sums price*stock exactly and averages the ratings.
func inventory(ctx context.Context) (string, float64, error) {
	var rows []struct {
		Price  float64
		Stock  int64
		Rating float64
	}
	err := db.DB.WithContext(ctx).Model(&products.Product{}).
		Select("price, stock, rating").Scan(&rows).Error
	if err != nil {
		return "", 0, err
	}

	total := decimal.Zero
	ratings := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.Price).Mul(decimal.NewFromInt(r.Stock)))
		ratings = ratings.Add(decimal.NewFromFloat(r.Rating))
	}

	avg := 0.0
	if len(rows) > 0 {
		avg = ratings.Div(decimal.NewFromInt(int64(len(rows)))).Round(2).InexactFloat64()
	}
	return total.StringFixed(2), avg, nil
}
