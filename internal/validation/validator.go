// Package validation configures request validation for registration and mail payloads.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/literacy-registrar/internal/models"
)

var (
	setupOnce  sync.Once
	shared     *validator.Validate
	translator ut.Translator
)

// optionTags binds each custom tag to the closed list it checks against.
var optionTags = map[string][]string{
	"district": models.Districts,
	"chapter":  models.Chapters,
	"group":    models.Groups,
	"level":    models.Levels,
	"gender":   models.Genders,
}

// New returns the process-wide validator. It reports JSON field names, knows the
// option-list tags and translates failures to English. Empty values pass the option
// tags; combine with required where a value is mandatory.
//
// The translator holds one message per tag, so tags and translations are registered
// once and every caller shares the same instance. Validate is safe for concurrent use.
func New() *validator.Validate {
	setupOnce.Do(func() {
		v, trans, err := build()
		if err != nil {
			panic(fmt.Sprintf("validation: %v", err))
		}
		shared, translator = v, trans
	})
	return shared
}

func build() (*validator.Validate, ut.Translator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, options := range optionTags {
		allowed := options
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			for _, option := range allowed {
				if value == option {
					return true
				}
			}
			return false
		})
		if err != nil {
			return nil, nil, fmt.Errorf("register %s: %w", tag, err)
		}
	}

	locale := en.New()
	trans, found := ut.New(locale, locale).GetTranslator("en")
	if !found {
		return nil, nil, errors.New("english translator unavailable")
	}
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("register default translations: %w", err)
	}
	if err := trans.Add("option", "{0} is not one of the allowed values", true); err != nil {
		return nil, nil, fmt.Errorf("add option message: %w", err)
	}
	for tag := range optionTags {
		err := v.RegisterTranslation(tag, trans, func(ut.Translator) error {
			return nil
		}, func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("option", fe.Field())
			return msg
		})
		if err != nil {
			return nil, nil, fmt.Errorf("register %s translation: %w", tag, err)
		}
	}
	return v, trans, nil
}

// TranslateErrors maps each failing field to a readable message.
// It returns nil when err carries no validation errors.
func TranslateErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	New()
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Translate(translator)
	}
	return fields
}
