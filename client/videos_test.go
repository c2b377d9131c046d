package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edulearn/academy-go/core/lms"
	"github.com/edulearn/academy-go/lmstest"
)

func Test_VideoService_CreateAndByCourse(t *testing.T) {
	c, _ := setup(t, lmstest.Options{})

	first, err := c.Videos.Create(context.Background(), lms.NewVideo{
		Title:    "Lesson 1",
		URL:      "https://cdn.example.test/v/1.mp4",
		CourseID: 10,
		Position: 1,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	_, err = c.Videos.Create(context.Background(), lms.NewVideo{
		Title:    "Other course",
		URL:      "https://cdn.example.test/v/2.mp4",
		CourseID: 11,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	vids, err := c.Videos.ByCourse(context.Background(), 10)
	if err != nil {
		t.Fatalf("ByCourse() failed: %v", err)
	}
	if assert.Len(t, vids, 1) {
		assert.Equal(t, first.ID, vids[0].ID)
	}
}

func Test_VideoService_ByInstructor(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})
	mine := srv.SeedCourse(lms.Course{Title: "Mine", CategoryID: 1, Instructor: &lms.UserRef{ID: 7}})
	other := srv.SeedCourse(lms.Course{Title: "Other", CategoryID: 1, Instructor: &lms.UserRef{ID: 8}})

	lesson, err := c.Videos.Create(context.Background(), lms.NewVideo{
		Title:    "Lesson",
		URL:      "https://cdn.example.test/v/3.mp4",
		CourseID: mine.ID,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	_, err = c.Videos.Create(context.Background(), lms.NewVideo{
		Title:    "Not mine",
		URL:      "https://cdn.example.test/v/4.mp4",
		CourseID: other.ID,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	vids, err := c.Videos.ByInstructor(context.Background(), 7)
	if err != nil {
		t.Fatalf("ByInstructor() failed: %v", err)
	}
	if assert.Len(t, vids, 1) {
		assert.Equal(t, lesson.ID, vids[0].ID)
	}
}

func Test_VideoService_Create_invalidURL(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})

	before := srv.Hits()
	_, err := c.Videos.Create(context.Background(), lms.NewVideo{Title: "x", URL: "not a url", CourseID: 1})
	assert.Error(t, err)
	assert.Equal(t, before, srv.Hits())
}
