package service

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/extractor"
)

const (
	defaultPhoneRegion = "ID"
	maxUsernameLength  = 255
	maxImportURLLength = 2048
)

var (
	validate     = newValidator()
	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateImportInput checks the username and URL before any work is done.
func validateImportInput(username, rawURL string) *ValidationError {
	errs := &ValidationError{}

	username = strings.TrimSpace(username)
	switch {
	case username == "":
		errs.Add("username", "The username field is required.")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		errs.Add("username", fmt.Sprintf("The username field must not be greater than %d characters.", maxUsernameLength))
	}

	rawURL = strings.TrimSpace(rawURL)
	switch {
	case rawURL == "":
		errs.Add("url", "The url field is required.")
	case len(rawURL) > maxImportURLLength:
		errs.Add("url", fmt.Sprintf("The url field must not be greater than %d characters.", maxImportURLLength))
	case !isHTTPSURL(rawURL):
		errs.Add("url", "The url field must be a valid https URL.")
	}

	if errs.Empty() {
		return nil
	}
	return errs
}

func isHTTPSURL(raw string) bool {
	if !extractor.ValidURL(raw) {
		return false
	}
	parsed, err := url.Parse(raw)
	return err == nil && strings.EqualFold(parsed.Scheme, "https")
}

// decodeUpdateRequest maps an untyped PATCH body onto the allow-listed request.
// Keys outside the allow-list are returned rather than rejected. The email is
// trimmed and lower-cased here so validation sees the stored form.
func decodeUpdateRequest(payload map[string]any) (dto.UpdateUserRequest, []string, error) {
	var (
		req      dto.UpdateUserRequest
		metadata mapstructure.Metadata
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &req,
		TagName:  "json",
		Metadata: &metadata,
	})
	if err != nil {
		return req, nil, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		var decodeErr *mapstructure.Error
		if errors.As(err, &decodeErr) {
			errs := &ValidationError{}
			for _, msg := range decodeErr.Errors {
				errs.Add("payload", msg)
			}
			return req, metadata.Unused, errs
		}
		return req, metadata.Unused, NewValidationError("payload", err.Error())
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}
	return req, metadata.Unused, nil
}

// validateUpdateRequest runs the field rules and the create-time requirements
// for works, clients and media that carry no id.
func validateUpdateRequest(req dto.UpdateUserRequest) *ValidationError {
	errs := &ValidationError{}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs.Add("payload", err.Error())
			return errs
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			errs.Add(field, fieldMessage(field, fe))
		}
	}

	for i, work := range req.Works {
		if work.ID == nil && isBlank(work.Title) {
			errs.Add(fmt.Sprintf("works.%d.title", i), "Work title is required when creating new work.")
		}
	}
	for i, client := range req.Clients {
		if client.ID == nil && isBlank(client.Name) {
			errs.Add(fmt.Sprintf("clients.%d.name", i), "Client name is required when creating new client.")
		}
		for j, media := range client.Media {
			if media.ID == nil && isBlank(media.URL) {
				errs.Add(fmt.Sprintf("clients.%d.media.%d.url", i, j), "Media URL is required when creating new media.")
			}
		}
	}

	if errs.Empty() {
		return nil
	}
	return errs
}

// fieldPath turns "UpdateUserRequest.works[0].title" into "works.0.title".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	case "uuid":
		return fmt.Sprintf("The %s field must be a valid UUID.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

// normalizePhone formats raw as E.164 using region for local numbers.
// An empty result means the number is not valid.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
