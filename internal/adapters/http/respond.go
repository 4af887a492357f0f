package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"growfitness/internal/adapters/http/middleware"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/domain/banner"
	"growfitness/internal/domain/code"
	"growfitness/internal/domain/crm"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/outbox"
	"growfitness/internal/domain/quiz"
	"growfitness/internal/domain/report"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/resource"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// Error codes beyond the generic ones in middleware.
const (
	codeInvalidInput    = "INVALID_INPUT"
	codeInvalidCapacity = "INVALID_SESSION_CAPACITY"
	codeEmailExists     = "EMAIL_ALREADY_EXISTS"
	codeCodeExists      = "CODE_ALREADY_EXISTS"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names, not Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// errorMapping is the status and code an error class renders as.
type errorMapping struct {
	err    error
	status int
	code   string
}

var notFoundErrors = []errorMapping{
	{banner.ErrNotFound, http.StatusNotFound, "BANNER_NOT_FOUND"},
	{location.ErrNotFound, http.StatusNotFound, "LOCATION_NOT_FOUND"},
	{kid.ErrNotFound, http.StatusNotFound, "KID_NOT_FOUND"},
	{user.ErrNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{user.ErrParentNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{session.ErrNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{invoice.ErrNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
	{quiz.ErrNotFound, http.StatusNotFound, "QUIZ_NOT_FOUND"},
	{report.ErrNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{code.ErrNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{crm.ErrNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{resource.ErrNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{outbox.ErrNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{request.ErrFreeSessionNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{request.ErrRescheduleNotFound, http.StatusNotFound, middleware.CodeNotFound},
	{request.ErrExtraSessionNotFound, http.StatusNotFound, middleware.CodeNotFound},
}

var fixedErrors = []errorMapping{
	{user.ErrEmailTaken, http.StatusConflict, codeEmailExists},
	{code.ErrCodeTaken, http.StatusConflict, codeCodeExists},
	{orchestrators.ErrInvalidCredentials, http.StatusUnauthorized, middleware.CodeUnauthorized},
	{orchestrators.ErrAccountLocked, http.StatusUnauthorized, middleware.CodeUnauthorized},
	{orchestrators.ErrInvalidRefreshToken, http.StatusUnauthorized, middleware.CodeUnauthorized},
	{session.ErrCapacityExceeded, http.StatusBadRequest, codeInvalidCapacity},
}

// invalidInputErrors render as 400 INVALID_INPUT with the error text as message.
var invalidInputErrors = []error{
	orchestrators.ErrInvalidResetToken,
	report.ErrNotGenerated,
	request.ErrNotPending,
	request.ErrMissingField,
	request.ErrInvalidSessionType,
	outbox.ErrTerminal,

	session.ErrGroupNeedsKids, session.ErrIndividualNeedsKid, session.ErrInvalidType,
	session.ErrInvalidStatus, session.ErrInvalidCapacity, session.ErrInvalidDuration, session.ErrMissingRefs,

	invoice.ErrInvalidType, invoice.ErrInvalidStatus, invoice.ErrMissingParent, invoice.ErrMissingCoach,
	invoice.ErrNoItems, invoice.ErrNegativeAmount, invoice.ErrMissingDueDate,

	user.ErrInvalidEmail, user.ErrEmptyEmail, user.ErrInvalidRole, user.ErrInvalidStatus,
	user.ErrEmptyPassword, user.ErrPasswordTooShort, user.ErrMissingName, user.ErrTokenInvalid,

	kid.ErrEmptyName, kid.ErrInvalidSessionType, kid.ErrInvalidBirthDate,
	location.ErrEmptyName,
	banner.ErrEmptyImageURL, banner.ErrNegativeOrder, banner.ErrInvalidAudience, banner.ErrEmptyReorder, banner.ErrDuplicateID,
	quiz.ErrEmptyTitle, quiz.ErrNoQuestions, quiz.ErrInvalidQuestion, quiz.ErrInvalidPassingScore, quiz.ErrInvalidAudience,
	report.ErrEmptyTitle, report.ErrInvalidType, report.ErrInvalidRange,

	code.ErrEmptyCode, code.ErrInvalidType, code.ErrInvalidStatus, code.ErrMissingDiscount,
	code.ErrInvalidPercentage, code.ErrNegativeAmount, code.ErrInvalidUsageLimit,

	crm.ErrInvalidStatus, crm.ErrNoIdentity, crm.ErrEmptyNote,

	resource.ErrEmptyTitle, resource.ErrInvalidType, resource.ErrInvalidAudience,
	resource.ErrMissingContent, resource.ErrMissingFile, resource.ErrMissingExternal,
}

// validationError is a request that failed decoding or struct validation.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func newValidationError(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// classify maps err onto a status, code and client-facing message.
func classify(err error) (int, string, string) {
	var vErr *validationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, middleware.CodeValidation, vErr.msg
	}
	for _, m := range notFoundErrors {
		if errors.Is(err, m.err) {
			return m.status, m.code, m.err.Error()
		}
	}
	for _, m := range fixedErrors {
		if errors.Is(err, m.err) {
			return m.status, m.code, m.err.Error()
		}
	}
	for _, e := range invalidInputErrors {
		if errors.Is(err, e) {
			return http.StatusBadRequest, codeInvalidInput, err.Error()
		}
	}
	return http.StatusInternalServerError, middleware.CodeInternal, "Internal server error"
}

// writeError is the single place that turns an error into an HTTP response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	middleware.WriteError(w, r, status, code, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// decodeAndValidate strictly decodes the JSON body into dst and runs struct validation.
// PRE: dst is a pointer to a struct
// POST: returns a *validationError for malformed JSON, unknown fields or failed tags
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return newValidationError("invalid request body: %v", err)
	}
	return validateStruct(dst)
}

// decodeOptional is decodeAndValidate for endpoints whose body may be empty.
func decodeOptional(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return newValidationError("invalid request body: %v", err)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newValidationError("%v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return &validationError{msg: strings.Join(msgs, "; ")}
}

// queryDate parses an optional RFC 3339 timestamp or YYYY-MM-DD date from the query.
func queryDate(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, newValidationError("%s must be an ISO 8601 date", key)
	}
	return t, nil
}
