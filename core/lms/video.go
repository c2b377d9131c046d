package lms

import (
	"github.com/go-playground/validator/v10"

	"github.com/edulearn/academy-go/core"
)

type Video struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	CourseID int    `json:"courseId"`
	Duration int    `json:"duration,omitempty"` // seconds
	Position int    `json:"position,omitempty"` // ordering within the course
}

type NewVideo struct {
	Title    string `json:"title" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	CourseID int    `json:"courseId" validate:"required"`
	Duration int    `json:"duration,omitempty"`
	Position int    `json:"position,omitempty"`
}

func (nv *NewVideo) Validate(validate *validator.Validate) error {
	nv.Title = core.CleanString(nv.Title)
	nv.URL = core.CleanString(nv.URL)
	return validate.Struct(nv)
}
