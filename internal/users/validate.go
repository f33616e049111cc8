package users

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinAge = 18
	MaxAge = 120
)

var genders = map[string]bool{"Male": true, "Female": true, "Other": true}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{7,20}$`)

// normalizeGender maps "male", "MALE" and friends onto the stored spelling.
func normalizeGender(g string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(g)))
}

// changes validates the provided fields and returns them keyed by column.
// With requireAll set every required field must be present (create); otherwise
// only the fields sent are checked (partial update).
func (in Input) changes(requireAll bool) (map[string]any, error) {
	if requireAll {
		var missing []string
		if in.FullName == nil || strings.TrimSpace(*in.FullName) == "" {
			missing = append(missing, "fullName")
		}
		if in.Age == nil {
			missing = append(missing, "age")
		}
		if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
			missing = append(missing, "email")
		}
		if in.Phone == nil || strings.TrimSpace(*in.Phone) == "" {
			missing = append(missing, "phone")
		}
		if in.Gender == nil || strings.TrimSpace(*in.Gender) == "" {
			missing = append(missing, "gender")
		}
		if in.Course == nil || strings.TrimSpace(*in.Course) == "" {
			missing = append(missing, "course")
		}
		if len(missing) > 0 {
			return nil, apierror.Validation("Missing required fields: "+strings.Join(missing, ", "), missing...)
		}
	}

	out := map[string]any{}
	var problems []string

	if in.FullName != nil {
		if v := strings.TrimSpace(*in.FullName); v == "" {
			problems = append(problems, "fullName cannot be empty")
		} else {
			out["full_name"] = v
		}
	}
	if age := in.Age.Int(); age != nil {
		if *age < MinAge || *age > MaxAge {
			problems = append(problems, fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge))
		} else {
			out["age"] = *age
		}
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if addr, err := mail.ParseAddress(v); err != nil || addr.Address != v {
			problems = append(problems, "email is not a valid address")
		} else {
			out["email"] = v
		}
	}
	if in.Phone != nil {
		if v := strings.TrimSpace(*in.Phone); !phonePattern.MatchString(v) {
			problems = append(problems, "phone is not a valid phone number")
		} else {
			out["phone"] = v
		}
	}
	if in.Gender != nil {
		if v := normalizeGender(*in.Gender); !genders[v] {
			problems = append(problems, "gender must be Male, Female or Other")
		} else {
			out["gender"] = v
		}
	}
	if in.BirthDate != nil {
		v := strings.TrimSpace(*in.BirthDate)
		switch {
		case v == "":
			out["birth_date"] = nil
		case !validDate(v):
			problems = append(problems, "birthDate must be a date in YYYY-MM-DD format")
		default:
			out["birth_date"] = v
		}
	}
	if in.Course != nil {
		if v := strings.TrimSpace(*in.Course); v == "" {
			problems = append(problems, "course cannot be empty")
		} else {
			out["course"] = v
		}
	}

	if len(problems) > 0 {
		return nil, apierror.Validation("Validation failed", problems...)
	}
	return out, nil
}

func validDate(s string) bool {
	t, err := time.Parse(time.DateOnly, s)
	return err == nil && !t.After(time.Now())
}

// newUser builds a record from validated create changes.
func newUser(c map[string]any) User {
	u := User{
		FullName: c["full_name"].(string),
		Age:      c["age"].(int),
		Email:    c["email"].(string),
		Phone:    c["phone"].(string),
		Gender:   c["gender"].(string),
		Course:   c["course"].(string),
	}
	if bd, ok := c["birth_date"].(string); ok {
		u.BirthDate = &bd
	}
	return u
}
