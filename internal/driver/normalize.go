package driver

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/ads-driver/internal/models"
)

const (
	TimeoutDetail      = "request processing timeout"
	invalidUpstreamMsg = "invalid upstream data"
	upstreamFailureMsg = "upstream failure"
)

var validate = validator.New()

// Response is a status code plus the JSON body to write.
type Response struct {
	Status int
	Body   any
}

// Normalize maps an outcome onto a response. render shapes the success
// value into its wire schema; the rendered body is validated before it is
// returned.
func Normalize[T any](o Outcome[T], render func(T) any) Response {
	switch o.Class {
	case Success:
		body := render(o.Value)
		if err := validateBody(body); err != nil {
			return errorResponse(http.StatusInternalServerError, invalidUpstreamMsg)
		}
		return Response{Status: http.StatusOK, Body: body}
	case NoData:
		return Response{Status: http.StatusOK, Body: []any{}}
	case InvalidCredentials, AccessDenied:
		return errorResponse(http.StatusForbidden, o.Detail)
	case InvalidInput:
		return errorResponse(http.StatusBadRequest, o.Detail)
	case UpstreamFailure:
		detail := o.Detail
		if detail == "" {
			detail = upstreamFailureMsg
		}
		return errorResponse(http.StatusInternalServerError, detail)
	case Timeout:
		return errorResponse(http.StatusRequestTimeout, TimeoutDetail)
	default:
		return errorResponse(http.StatusInternalServerError, upstreamFailureMsg)
	}
}

// Identity renders a value as itself.
func Identity[T any](v T) any { return v }

func errorResponse(status int, detail string) Response {
	return Response{Status: status, Body: models.ErrorBody{Detail: detail}}
}

func validateBody(body any) error {
	switch b := body.(type) {
	case nil:
		return nil
	case []models.StatsRow:
		return validateEach(b)
	case []models.AccountInfo:
		return validateEach(b)
	case models.AccountsResponse, models.AccountInfo, models.StatsRow:
		return validate.Struct(b)
	default:
		return nil
	}
}

func validateEach[T any](items []T) error {
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return err
		}
	}
	return nil
}
