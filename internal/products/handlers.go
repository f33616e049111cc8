package products

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
)

// MaxImportSize bounds uploaded workbooks.
const MaxImportSize = 5 << 20

func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		apierror.Write(w, r, err)
		return
	}

	p, err := Create(r.Context(), in)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product created successfully",
		"product": p,
	})
}

func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := utils.ParsePage(r)
	q := r.URL.Query()

	list, total, err := List(r.Context(), ListQuery{
		Page:     page,
		Limit:    limit,
		Search:   utils.SearchTerm(r),
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	})
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success":    true,
		"products":   list,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

func CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := Categories(r.Context())
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	utils.JSON(w, r, http.StatusOK, map[string]any{"success": true, "categories": cats})
}

func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	p, err := Get(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	utils.JSON(w, r, http.StatusOK, map[string]any{"success": true, "product": p})
}

func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	var in Input
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		apierror.Write(w, r, err)
		return
	}

	p, err := Update(r.Context(), id, in)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated successfully",
		"product": p,
	})
}

func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	p, err := Delete(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted successfully",
		"product": p,
	})
}

// ImportHandler accepts a multipart .xlsx upload in the "file" field.
func ImportHandler(w http.ResponseWriter, r *http.Request) {
	// Headroom for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize+1<<20)
	if err := r.ParseMultipartForm(MaxImportSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierror.Write(w, r, apierror.Upload(apierror.CodeFileTooLarge, "File too large. Maximum size is 5MB"))
			return
		}
		apierror.Write(w, r, apierror.Upload(apierror.CodeNoFile, "No file uploaded"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierror.Write(w, r, apierror.Upload(apierror.CodeNoFile, "No file uploaded"))
		return
	}
	defer file.Close()

	if header.Size > MaxImportSize {
		apierror.Write(w, r, apierror.Upload(apierror.CodeFileTooLarge, "File too large. Maximum size is 5MB"))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		apierror.Write(w, r, apierror.Upload(apierror.CodeInvalidFile, "Only .xlsx files are allowed"))
		return
	}

	res, err := Import(r.Context(), file)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
}
