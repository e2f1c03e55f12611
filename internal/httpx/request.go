package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/ads-driver/internal/models"
)

var validate = newValidator()

const tooLargeDetail = "request body too large"

var errBodyTooLarge = errors.New(tooLargeDetail)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody decodes and validates a JSON body. The returned message is
// safe to show to the caller.
func decodeBody(r *http.Request, dst any) (string, bool) {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var (
			mbe *http.MaxBytesError
			ute *json.UnmarshalTypeError
		)
		switch {
		case errors.Is(err, io.EOF):
			return "request body is required", false
		case errors.As(err, &mbe):
			return tooLargeDetail, false
		case errors.Is(err, models.ErrInvalidDate):
			return err.Error(), false
		case errors.As(err, &ute) && ute.Field != "":
			return "invalid " + ute.Field, false
		default:
			return "invalid request body", false
		}
	}
	if dec.More() {
		return "invalid request body", false
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "validation error"
	}
	fe := ve[0]
	if fe.Tag() == "required" {
		return fmt.Sprintf("%s is required", fe.Field())
	}
	return fmt.Sprintf("invalid %s", fe.Field())
}

// credentials reads the auth headers, falling back to the
// authorization_* body fields. The body is restored for the handler; a body
// over the size cap yields errBodyTooLarge.
func credentials(r *http.Request) (models.Credentials, error) {
	c := models.Credentials{
		Token:    strings.TrimSpace(r.Header.Get(models.HeaderToken)),
		Login:    strings.TrimSpace(r.Header.Get(models.HeaderLogin)),
		Password: r.Header.Get(models.HeaderPassword),
	}
	if c.Token != "" || c.Login != "" || r.Body == nil {
		return c, nil
	}
	raw, err := io.ReadAll(r.Body)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return c, errBodyTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return c, nil
	}
	var bc models.BodyCredentials
	if json.Unmarshal(raw, &bc) == nil {
		c.Token = strings.TrimSpace(bc.AuthorizationToken)
		c.Login = strings.TrimSpace(bc.AuthorizationLogin)
		c.Password = bc.AuthorizationPassword
	}
	return c, nil
}

