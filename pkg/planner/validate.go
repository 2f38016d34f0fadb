package planner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json names so messages match the document keys
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return v
}

// GuestInput holds the user-editable fields of a guest.
type GuestInput struct {
	Name        string      `json:"name" validate:"required"`
	Status      GuestStatus `json:"status" validate:"oneof=pending confirmed declined"`
	IsCouple    bool        `json:"isCouple"`
	PartnerName string      `json:"partnerName" validate:"required_if=IsCouple true"`
}

func (in GuestInput) normalize() GuestInput {
	in.Name = strings.TrimSpace(in.Name)
	in.PartnerName = strings.TrimSpace(in.PartnerName)

	if !in.IsCouple {
		in.PartnerName = ""
	}

	return in
}

// TaskInput holds the user-editable fields of a task.
type TaskInput struct {
	Text      string       `json:"text" validate:"required"`
	Category  TaskCategory `json:"category" validate:"oneof=general food decoration contact shopping transport entertainment"`
	Deadline  *string      `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Priority  Priority     `json:"priority" validate:"oneof=high medium low"`
	Completed bool         `json:"completed"`
}

func (in TaskInput) normalize() TaskInput {
	in.Text = strings.TrimSpace(in.Text)

	if in.Deadline != nil {
		d := strings.TrimSpace(*in.Deadline)
		in.Deadline = &d

		if d == "" {
			in.Deadline = nil
		}
	}

	return in
}

// UTableInput holds the seat count of each U-table arm.
type UTableInput struct {
	Left   int `json:"leftSeats" validate:"gte=0"`
	Right  int `json:"rightSeats" validate:"gte=0"`
	Bottom int `json:"bottomSeats" validate:"gte=0"`
}

func check(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date like %s", fe.Field(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}
