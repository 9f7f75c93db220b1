package dashboard

import (
	"context"
	"errors"

	"collab-platform/internal/project"
)

var ErrInvalidRequest = errors.New("dashboard: invalid request")

// Summary is the per-user project rollup shown on the dashboard.
type Summary struct {
	UID string `json:"uid"`

	TotalProjects  int `json:"total_projects"`
	QuoteRequested int `json:"quote_requested"`
	Quoted         int `json:"quoted"`
	InProgress     int `json:"in_progress"`
	Delivered      int `json:"delivered"`
	Closed         int `json:"closed"`

	OpenQuoteMinor int64 `json:"open_quote_minor"`
}

// Service aggregates project state for dashboard views. Reads only;
// aggregation happens over the ownership-filtered listing, so the
// summary can never leak another user's projects.
type Service struct {
	projects project.Store
}

func NewService(projects project.Store) *Service {
	return &Service{projects: projects}
}

func (s *Service) Summarize(ctx context.Context, uid string) (Summary, error) {
	if uid == "" {
		return Summary{}, ErrInvalidRequest
	}
	if s.projects == nil {
		return Summary{}, errors.New("dashboard: project store not configured")
	}

	rows, err := s.projects.ListForUser(ctx, uid)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{UID: uid}
	for _, p := range rows {
		out.TotalProjects++
		switch p.Status {
		case project.StatusQuoteRequested:
			out.QuoteRequested++
		case project.StatusQuoted:
			out.Quoted++
			out.OpenQuoteMinor += p.QuoteMinor
		case project.StatusInProgress:
			out.InProgress++
			out.OpenQuoteMinor += p.QuoteMinor
		case project.StatusDelivered:
			out.Delivered++
		case project.StatusClosed:
			out.Closed++
		}
	}
	return out, nil
}
