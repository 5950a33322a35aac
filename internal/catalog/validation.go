package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,62}$`)

func init() {
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
}

// ValidID reports whether id can name a catalog group.
func ValidID(id string) bool {
	return slugRegex.MatchString(id)
}

// Validate checks a group before it is stored.
func Validate(g *Group) error {
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(g.Spec) == 0 {
		return fmt.Errorf("validation error: empty specification document")
	}
	return nil
}

// decode reads a JSON request body into v and validates it.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
