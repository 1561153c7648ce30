package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Account / auth
	"Email":       "Email",
	"Password":    "Password",
	"NewPassword": "New password",
	"FirstName":   "First name",
	"LastName":    "Last name",
	"IDToken":     "ID token",
	"Token":       "Token",

	// Coach profile
	"Headline":        "Headline",
	"Bio":             "Bio",
	"Specialties":     "Specialties",
	"Certifications":  "Certifications",
	"ExperienceYears": "Years of experience",
	"HourlyRate":      "Hourly rate",
	"Currency":        "Currency",
	"AvatarURL":       "Avatar URL",
	"Phone":           "Phone number",

	// Client profile
	"DateOfBirth": "Date of birth",
	"Gender":      "Gender",
	"Location":    "Location",
	"Occupation":  "Occupation",
	"Goals":       "Goals",

	// Sessions and events
	"Title":           "Title",
	"Description":     "Description",
	"SessionType":     "Session type",
	"Audience":        "Audience",
	"DurationMinutes": "Duration",
	"Price":           "Price",
	"StartsAt":        "Start time",
	"Capacity":        "Capacity",
	"Availability":    "Availability",
	"Weekday":         "Weekday",
	"StartTime":       "Start time",
	"EndTime":         "End time",

	// Bookings and testimonials
	"SessionID":   "Session",
	"ScheduledAt": "Scheduled time",
	"Notes":       "Notes",
	"Status":      "Status",
	"Rating":      "Rating",
	"Content":     "Testimonial",
	"Roles":       "Roles",
}

// ValidationRules adds units to min/max messages
var ValidationRules = map[string]map[string]any{
	"DurationMinutes": {"unit": "minutes"},
	"ExperienceYears": {"unit": "years"},
	"Rating":          {"unit": "stars"},
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	fieldName := e.Field()
	label := getFieldLabel(fieldName)
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "min", "gte":
		if unit, ok := unitFor(fieldName); ok {
			return fmt.Sprintf("%s: must be at least %s %s", label, param, unit)
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)

	case "max", "lte":
		if unit, ok := unitFor(fieldName); ok {
			return fmt.Sprintf("%s: must be at most %s %s", label, param, unit)
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)

	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", label, param)

	case "len":
		return fmt.Sprintf("%s: must be exactly %s characters", label, param)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s: invalid email format", label)

	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)

	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation (. ' - /) are allowed", label)

	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)

	case "currency_code":
		return fmt.Sprintf("%s: must be a 3-letter currency code", label)

	case "hhmm":
		return fmt.Sprintf("%s: must be a time in HH:MM format", label)

	case "not_future":
		return fmt.Sprintf("%s: must not be in the future", label)

	case "gtfield":
		return fmt.Sprintf("%s: must be after %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func unitFor(fieldName string) (any, bool) {
	rules, ok := ValidationRules[fieldName]
	if !ok {
		return nil, false
	}
	unit, ok := rules["unit"]
	return unit, ok
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
