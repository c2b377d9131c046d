package core

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	lmsRoleTag  = "lmsrole"
	lmsRoleText = "must be one of STUDENT, INSTRUCTOR or ADMIN"

	enrollStatusTag  = "enrollstatus"
	enrollStatusText = "must be one of IN_PROGRESS, COMPLETED or DROPPED"

	courseStatusTag  = "coursestatus"
	courseStatusText = "must be one of DRAFT, PENDING, PUBLISHED or ARCHIVED"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	lmsRoles       = []string{"STUDENT", "INSTRUCTOR", "ADMIN"}
	enrollStatuses = []string{"IN_PROGRESS", "COMPLETED", "DROPPED"}
	courseStatuses = []string{"DRAFT", "PENDING", "PUBLISHED", "ARCHIVED"}
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(lmsRoleTag, oneOfValidation(lmsRoles))
	RegisterCustomTranslation(validate, translator, lmsRoleTag, lmsRoleText)

	_ = validate.RegisterValidation(enrollStatusTag, oneOfValidation(enrollStatuses))
	RegisterCustomTranslation(validate, translator, enrollStatusTag, enrollStatusText)

	_ = validate.RegisterValidation(courseStatusTag, oneOfValidation(courseStatuses))
	RegisterCustomTranslation(validate, translator, courseStatusTag, courseStatusText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// oneOfValidation allows only values in the given set (server-owned enums).
func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
