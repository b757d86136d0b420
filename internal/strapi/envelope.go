package strapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"placement/internal/models"

	"resty.dev/v3"
)

// ID is a CMS identifier. The CMS emits numbers; the engine treats ids as opaque strings.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// relationID renders an id the way the CMS expects relation ids: numeric when possible.
func relationID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func relationIDs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = relationID(id)
	}
	return out
}

func idStrings(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, string(id))
		}
	}
	return out
}

// apiError is the CMS error body.
type apiError struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// errMissingField is wrapped when a response lacks a required field.
var errMissingField = errors.New("missing required field")

// check converts a transport error or non-2xx response into an AppError.
func check(op string, res *resty.Response, err error) error {
	if err != nil {
		return models.NewNetworkError(op, err)
	}
	if !res.IsError() {
		return nil
	}

	status := res.StatusCode()
	var body apiError
	message := ""
	if json.Unmarshal([]byte(res.String()), &body) == nil && body.Error != nil {
		message = body.Error.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		appErr := models.NewUnauthenticatedError(op + ": credential rejected")
		appErr.Status = status
		return appErr
	case http.StatusNotFound:
		appErr := models.NewRemoteRejectedError(op, status, message)
		appErr.Code = models.CodeNotFound
		return appErr
	default:
		return models.NewRemoteRejectedError(op, status, message)
	}
}

// decode unmarshals a successful response body into dest.
func decode(op string, res *resty.Response, dest any) error {
	if err := json.Unmarshal([]byte(res.String()), dest); err != nil {
		return models.NewMalformedResponseError(op, err)
	}
	return nil
}

func missing(op, field string) error {
	return models.NewMalformedResponseError(op, fmt.Errorf("%w: %s", errMissingField, field))
}
