package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/utils"
)

// Validator checks tagged structs and reports failures as translated ErrValidation errors
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with the English translations and the custom
// "nonblank", "timestamp" and "tzname" tags registered.
func New() (*Validator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "mapstructure"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	custom := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{"nonblank", isNonBlank, "{0} cannot be empty"},
		{"timestamp", isTimestamp, "{0} must be an RFC3339 timestamp"},
		{"tzname", isTimezone, "{0} must be an IANA timezone name or Local"},
	}
	for _, c := range custom {
		if err := validate.RegisterValidation(c.tag, c.fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validation: %w", c.tag, err)
		}
		tag, message := c.tag, c.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// MustNew is New for composition roots and tests where the tag set is static
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates s. Field failures are returned as one ErrValidation
// listing every message in field order.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validationf("%v", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(v.trans))
	}
	return apperrors.Validationf("%s", strings.Join(messages, "; "))
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isTimestamp(fl validator.FieldLevel) bool {
	_, err := time.Parse(constants.TimestampFormat, fl.Field().String())
	return err == nil
}

func isTimezone(fl validator.FieldLevel) bool {
	return utils.ValidateTimezone(fl.Field().String())
}
