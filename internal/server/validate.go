package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/session"
)

type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: validate, translator: trans}, nil
}

// check returns an InvalidArgument error carrying a BadRequest detail with
// one violation per invalid field.
func (v *requestValidator) check(msg any) error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	messages := make([]string, 0, len(validationErrors))
	violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(validationErrors))
	for _, fe := range validationErrors {
		description := fe.Translate(v.translator)
		messages = append(messages, description)
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       fe.Field(),
			Description: description,
		})
	}

	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(messages, ", ")))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: violations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, session.ErrEmptyAnswer),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, learning.ErrInvalidQuality),
		errors.Is(err, cloze.ErrNoBlanks):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrEmptyPool),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNoAttempts),
		errors.Is(err, session.ErrNoPreviousCard),
		errors.Is(err, session.ErrNoQuestionsLeft):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, notebook.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
