package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validateImageSource passes when exactly one of the tagged field and the
// sibling named by the tag parameter holds a non-blank string.
func validateImageSource(fl validator.FieldLevel) bool {
	sibling := fl.Parent()
	if sibling.Kind() == reflect.Pointer {
		sibling = sibling.Elem()
	}
	other := sibling.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	hasSelf := strings.TrimSpace(fl.Field().String()) != ""
	hasOther := strings.TrimSpace(other.String()) != ""
	return hasSelf != hasOther
}
