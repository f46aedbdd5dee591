// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/z5labs/coerce/pkg/slogfield"
	"github.com/z5labs/coerce/rest/endpoint"

	"cloud.google.com/go/civil"
)

type Event struct {
	Name string     `json:"name"`
	Date civil.Date `json:"date"`
}

type Response struct {
	Events []Event `json:"events"`
}

type Option func(*Service)

func Logger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

type Service struct {
	log    *slog.Logger
	events []Event
}

func NewService(opts ...Option) *Service {
	s := &Service{
		log: slog.Default(),
		events: []Event{
			{Name: "launch", Date: civil.Date{Year: 2009, Month: time.February, Day: 14}},
			{Name: "release", Date: civil.Date{Year: 2009, Month: time.August, Day: 12}},
			{Name: "retrospective", Date: civil.Date{Year: 2009, Month: time.November, Day: 10}},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle lists the events between the "since" and "until" query
// parameters, both inclusive, up to "limit" events.
func (s *Service) Handle(ctx context.Context, _ *endpoint.Empty) (*Response, error) {
	since, hasSince := endpoint.Param[civil.Date](ctx, "since")
	until, hasUntil := endpoint.Param[civil.Date](ctx, "until")
	limit, hasLimit := endpoint.Param[int64](ctx, "limit")

	resp := &Response{Events: []Event{}}
	for _, e := range s.events {
		if hasLimit && int64(len(resp.Events)) >= limit {
			break
		}
		if hasSince && e.Date.Before(since) {
			continue
		}
		if hasUntil && e.Date.After(until) {
			continue
		}
		resp.Events = append(resp.Events, e)
	}

	s.log.InfoContext(ctx, "listed events", slogfield.Int("count", len(resp.Events)))
	return resp, nil
}
