package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s+\-()]+$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 10

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone accepts digits, spaces and + - ( ) with at least ten digits
func IsValidPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	return len(nonDigits.ReplaceAllString(phone, "")) >= minPhoneDigits
}

// ParseBookingDate parses a YYYY-MM-DD (or RFC 3339) date as a calendar day in loc
func ParseBookingDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02", date, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// IsWeekend reports whether date falls on Saturday or Sunday in loc.
// Unparseable dates are never weekends.
func IsWeekend(date string, loc *time.Location) bool {
	t, err := ParseBookingDate(date, loc)
	if err != nil {
		return false
	}
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// IsTimeSlot reports whether slot is one of TimeSlots
func IsTimeSlot(slot string) bool {
	return contains(TimeSlots, slot)
}

// NormalizeGender maps a gender label to its canonical form in Genders,
// ignoring case and treating hyphens, underscores and spaces alike.
// Unknown labels yield "".
func NormalizeGender(gender string) string {
	key := genderKey(gender)
	for _, g := range Genders {
		if genderKey(g) == key {
			return g
		}
	}
	return ""
}

func genderKey(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// IsCatalogService reports whether name is one of ServiceCatalog
func IsCatalogService(name string) bool {
	return contains(ServiceCatalog, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// BookingValidator validates booking forms against the weekend calendar of a timezone
type BookingValidator struct {
	validate *validator.Validate
}

// NewBookingValidator builds a validator whose weekend rule uses loc
func NewBookingValidator(loc *time.Location) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("weekend", func(fl validator.FieldLevel) bool {
		return IsWeekend(fl.Field().String(), loc)
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return IsTimeSlot(fl.Field().String())
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return NormalizeGender(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("catalog", func(fl validator.FieldLevel) bool {
		return IsCatalogService(fl.Field().String())
	})
	return &BookingValidator{validate: v}
}

// Validate returns nil or a *ValidationError for the first failing field.
// Missing fields are reported before malformed ones.
func (bv *BookingValidator) Validate(form *BookingForm) error {
	if form == nil {
		return NewValidationError("form", "Please fill all required fields")
	}
	err := bv.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	picked := verrs[0]
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			picked = fe
			break
		}
	}
	return toValidationError(picked)
}

var defaultBookingValidator = NewBookingValidator(time.Local)

// ValidateBookingForm validates form using the local calendar
func ValidateBookingForm(form *BookingForm) error {
	return defaultBookingValidator.Validate(form)
}

func toValidationError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "Please fill all required fields"
	case "loose_email":
		msg = "Please enter a valid email address"
	case "phone":
		msg = "Please enter a valid phone number"
	case "weekend":
		msg = "Please select a weekend date (Saturday or Sunday)"
	case "timeslot":
		msg = "Please select a valid time slot"
	case "gender":
		msg = "Please select a valid option"
	case "unique":
		msg = "Each service can only be selected once"
	case "min":
		msg = "Please select at least one service"
	case "catalog":
		msg = "Unknown service selected"
	default:
		msg = "Invalid value"
	}
	return NewValidationError(field, msg)
}
