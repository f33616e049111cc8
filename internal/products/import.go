package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/xuri/excelize/v2"
)

// SkippedRow reports a spreadsheet row that was not imported. Row is the
// 1-based sheet row, so the header is row 1.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
}

var importColumns = []string{"productname", "category", "price", "stock", "status", "rating"}

// Import reads products from the first sheet of an .xlsx workbook. The header
// row names the columns (productName, category, price, stock, status, rating
// and optionally image) in any order and case. Valid rows are inserted one by
// one; invalid rows are reported and skipped.
func Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, apierror.Upload(apierror.CodeInvalidFile, "File is not a readable .xlsx workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, apierror.Validation("Could not read the first sheet")
	}
	if len(rows) < 2 {
		return ImportResult{}, apierror.Validation("The sheet has no data rows")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, k := range importColumns {
		if _, ok := col[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return ImportResult{}, apierror.Validation("Missing required columns: "+strings.Join(missing, ", "), missing...)
	}

	res := ImportResult{Skipped: []SkippedRow{}}
	for i, rec := range rows[1:] {
		rowNum := i + 2
		if blank(rec) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		get := func(name string) *string {
			idx, ok := col[name]
			if !ok || idx >= len(rec) {
				return nil
			}
			v := strings.TrimSpace(rec[idx])
			if v == "" {
				return nil
			}
			return &v
		}

		in, err := rowInput(get)
		if err == nil {
			_, err = Create(ctx, in)
		}
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Row: rowNum, Reason: reason(err)})
			continue
		}
		res.Imported++
	}
	return res, nil
}

func rowInput(get func(string) *string) (Input, error) {
	in := Input{
		ProductName: get("productname"),
		Category:    get("category"),
		Status:      get("status"),
		Image:       get("image"),
	}
	var err error
	if in.Price, err = parseCell[utils.FlexFloat](get("price"), "price"); err != nil {
		return in, err
	}
	if in.Stock, err = parseCell[utils.FlexInt](get("stock"), "stock"); err != nil {
		return in, err
	}
	if in.Rating, err = parseCell[utils.FlexFloat](get("rating"), "rating"); err != nil {
		return in, err
	}
	return in, nil
}

type flexNumber interface {
	utils.FlexInt | utils.FlexFloat
}

// parseCell runs a cell through the same number parsing JSON bodies get.
func parseCell[T flexNumber, PT interface {
	*T
	UnmarshalJSON([]byte) error
}](cell *string, name string) (*T, error) {
	if cell == nil {
		return nil, nil
	}
	v := new(T)
	if err := PT(v).UnmarshalJSON([]byte(fmt.Sprintf("%q", *cell))); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func reason(err error) string {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Details) > 0 {
			return apiErr.Message + ": " + strings.Join(apiErr.Details, "; ")
		}
		return apiErr.Message
	}
	return err.Error()
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
