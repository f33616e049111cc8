// Package seeds loads demo users and products from a YAML file.
package seeds

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/products"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

type File struct {
	Users    []users.Input    `yaml:"users"`
	Products []products.Input `yaml:"products"`
}

type Report struct {
	UsersCreated    int
	UsersSkipped    int
	ProductsCreated int
	ProductsSkipped int
}

func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Apply inserts what is missing. Users are matched by email and products by
// name and category, so running it twice changes nothing.
func Apply(ctx context.Context, f File) (Report, error) {
	var rep Report

	for i, in := range f.Users {
		email := ""
		if in.Email != nil {
			email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		var n int64
		if err := db.DB.WithContext(ctx).Model(&users.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return rep, fmt.Errorf("DB error on user %d: %w", i+1, err)
		}
		if n > 0 {
			zap.L().Info("user exists, skipping", zap.String("email", email))
			rep.UsersSkipped++
			continue
		}
		if _, err := users.Create(ctx, in); err != nil {
			return rep, fmt.Errorf("failed to create user %d (%s): %w", i+1, email, err)
		}
		rep.UsersCreated++
	}

	for i, in := range f.Products {
		name, category := deref(in.ProductName), deref(in.Category)
		var n int64
		err := db.DB.WithContext(ctx).Model(&products.Product{}).
			Where("product_name = ? AND category = ?", name, category).Count(&n).Error
		if err != nil {
			return rep, fmt.Errorf("DB error on product %d: %w", i+1, err)
		}
		if n > 0 {
			zap.L().Info("product exists, skipping", zap.String("product", name))
			rep.ProductsSkipped++
			continue
		}
		if _, err := products.Create(ctx, in); err != nil {
			return rep, fmt.Errorf("failed to create product %d (%s): %w", i+1, name, err)
		}
		rep.ProductsCreated++
	}

	zap.L().Info("seeding finished",
		zap.Int("users", rep.UsersCreated),
		zap.Int("products", rep.ProductsCreated),
	)
	return rep, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
