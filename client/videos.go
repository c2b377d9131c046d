package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulearn/academy-go/core/lms"
)

// VideoService manages course lecture videos.
type VideoService struct {
	c *Client
}

func (s *VideoService) List(ctx context.Context) ([]lms.Video, error) {
	var vids []lms.Video
	err := s.c.getJSON(ctx, "/api/videos", &vids)
	return vids, err
}

// ByInstructor returns every video belonging to an instructor's courses.
func (s *VideoService) ByInstructor(ctx context.Context, instructorID int) ([]lms.Video, error) {
	var vids []lms.Video
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/videos/instructor/%d", instructorID), &vids)
	return vids, err
}

// ByCourse returns the videos attached to a course, in playback order.
func (s *VideoService) ByCourse(ctx context.Context, courseID int) ([]lms.Video, error) {
	var vids []lms.Video
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/videos/course/%d", courseID), &vids)
	return vids, err
}

func (s *VideoService) Get(ctx context.Context, id int) (lms.Video, error) {
	var vid lms.Video
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/videos/%d", id), &vid)
	return vid, err
}

func (s *VideoService) Create(ctx context.Context, data lms.NewVideo) (lms.Video, error) {
	var vid lms.Video
	if err := data.Validate(s.c.validate); err != nil {
		return vid, err
	}
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/videos", data, &vid)
	return vid, err
}

func (s *VideoService) Update(ctx context.Context, id int, data lms.NewVideo) (lms.Video, error) {
	var vid lms.Video
	if err := data.Validate(s.c.validate); err != nil {
		return vid, err
	}
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/videos/%d", id), data, &vid)
	return vid, err
}

func (s *VideoService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/api/videos/%d", id))
}
