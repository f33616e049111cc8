package users

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
)

// listPagination keeps the historical totalUsers field next to the shared
// pagination fields.
type listPagination struct {
	utils.Pagination
	TotalUsers int64 `json:"totalUsers"`
}

func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		apierror.Write(w, r, err)
		return
	}

	u, err := Create(r.Context(), in)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"user":    u,
	})
}

func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := utils.ParsePage(r)

	list, total, err := List(r.Context(), ListQuery{Page: page, Limit: limit, Search: utils.SearchTerm(r)})
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"users":   list,
		"pagination": listPagination{
			Pagination: utils.NewPagination(page, limit, total),
			TotalUsers: total,
		},
	})
}

func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	u, err := Get(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{"success": true, "user": u})
}

func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
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

	u, err := Update(r.Context(), id, in)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "User updated successfully",
		"user":    u,
	})
}

func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	u, err := Delete(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted successfully",
		"user":    u,
	})
}
