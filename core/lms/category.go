package lms

import (
	"github.com/go-playground/validator/v10"

	"github.com/edulearn/academy-go/core"
)

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type NewCategory struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewCategory) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}
