package products

import (
	"math"
	"net/url"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
)

const (
	MinRating = 0
	MaxRating = 5
)

// changes validates the provided fields and returns them keyed by column.
func (in Input) changes(requireAll bool) (map[string]any, error) {
	if requireAll {
		var missing []string
		if in.ProductName == nil || strings.TrimSpace(*in.ProductName) == "" {
			missing = append(missing, "productName")
		}
		if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
			missing = append(missing, "category")
		}
		if in.Price == nil {
			missing = append(missing, "price")
		}
		if in.Stock == nil {
			missing = append(missing, "stock")
		}
		if in.Status == nil || strings.TrimSpace(*in.Status) == "" {
			missing = append(missing, "status")
		}
		if in.Rating == nil {
			missing = append(missing, "rating")
		}
		if len(missing) > 0 {
			return nil, apierror.Validation("Missing required fields: "+strings.Join(missing, ", "), missing...)
		}
	}

	out := map[string]any{}
	var problems []string

	if in.ProductName != nil {
		if v := strings.TrimSpace(*in.ProductName); v == "" {
			problems = append(problems, "productName cannot be empty")
		} else {
			out["product_name"] = v
		}
	}
	if in.Category != nil {
		if v := strings.TrimSpace(*in.Category); v == "" {
			problems = append(problems, "category cannot be empty")
		} else {
			out["category"] = v
		}
	}
	if price := in.Price.Float(); price != nil {
		if *price < 0 || math.IsNaN(*price) || math.IsInf(*price, 0) {
			problems = append(problems, "price must be zero or more")
		} else {
			out["price"] = *price
		}
	}
	if stock := in.Stock.Int(); stock != nil {
		if *stock < 0 {
			problems = append(problems, "stock must be zero or more")
		} else {
			out["stock"] = *stock
		}
	}
	if in.Status != nil {
		if v := strings.TrimSpace(*in.Status); v == "" {
			problems = append(problems, "status cannot be empty")
		} else {
			out["status"] = v
		}
	}
	if rating := in.Rating.Float(); rating != nil {
		if *rating < MinRating || *rating > MaxRating || math.IsNaN(*rating) {
			problems = append(problems, "rating must be between 0 and 5")
		} else {
			out["rating"] = *rating
		}
	}
	if in.Image != nil {
		v := strings.TrimSpace(*in.Image)
		switch {
		case v == "":
			out["image"] = nil
		case !validImageRef(v):
			problems = append(problems, "image must be an http(s) or data URL")
		default:
			out["image"] = v
		}
	}

	if len(problems) > 0 {
		return nil, apierror.Validation("Validation failed", problems...)
	}
	return out, nil
}

func validImageRef(s string) bool {
	if strings.HasPrefix(s, "data:image/") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func newProduct(c map[string]any) Product {
	p := Product{
		ProductName: c["product_name"].(string),
		Category:    c["category"].(string),
		Price:       c["price"].(float64),
		Stock:       c["stock"].(int),
		Status:      c["status"].(string),
		Rating:      c["rating"].(float64),
	}
	if img, ok := c["image"].(string); ok {
		p.Image = &img
	}
	return p
}
