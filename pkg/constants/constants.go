package constants

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	CallerKey    ContextKey = "caller"
	ParamsKey    ContextKey = "params"
	RequestStart ContextKey = "requestStart"
	RequestIDKey ContextKey = "requestID"
)

// Validate is shared by every DTO so struct metadata is cached once.
// Field errors are reported under their json names and rendered in English
// through Translator.
var Validate, Translator = newValidator()

func newValidator() (*validator.Validate, ut.Translator) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator(locale.Locale())
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}
	err := v.RegisterTranslation("required", trans, func(t ut.Translator) error {
		return t.Add("required", "{0} is required", true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T("required", fe.Field())
		return msg
	})
	if err != nil {
		panic(err)
	}
	return v, trans
}
