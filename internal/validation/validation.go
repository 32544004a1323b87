package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/betterthansis/unisis/internal/model"
)

var (
	personTypeTag  = "persontype"
	personTypeText = "{0} must be one of student, instructor, assistant, admin"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// Validator validates input structs and turns failures into *model.ValidationError.
// It satisfies echo.Validator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a Validator with English messages.
func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// use form field names in messages, falling back to the lowercased Go name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return toSnake(fld.Name)
		}
		return name
	})

	_ = validate.RegisterValidation(personTypeTag, func(fl validator.FieldLevel) bool {
		return model.PersonType(fl.Field().String()).Valid()
	})
	registerTranslation(validate, translator, personTypeTag, personTypeText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.Struct(i)
}

// Struct validates s and returns a *model.ValidationError listing every failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	fields := make([]model.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, model.FieldError{Field: fe.Field(), Error: fe.Translate(v.translator)})
	}
	return model.NewValidationError(nil, fields...)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
