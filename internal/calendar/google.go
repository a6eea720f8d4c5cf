package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// TokenSource supplies the practitioner's Google refresh token. Token
// acquisition lives in the OAuth callback flow; this only reads the stored
// credential.
type TokenSource interface {
	RefreshToken(ctx context.Context) (string, error)
}

// GoogleConfig holds the OAuth client settings for the practice calendar.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	CalendarID   string
}

// GoogleScheduler creates Google Calendar events with Meet conferencing.
type GoogleScheduler struct {
	cfg    GoogleConfig
	tokens TokenSource
	logger *logging.Logger
}

// NewGoogleScheduler creates a scheduler for the practice calendar.
func NewGoogleScheduler(cfg GoogleConfig, tokens TokenSource, logger *logging.Logger) *GoogleScheduler {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleScheduler{
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
	}
}

// Schedule inserts a new event with a Meet conference attached.
func (s *GoogleScheduler) Schedule(ctx context.Context, req EventRequest) (*Event, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	inserted, err := svc.Events.Insert(s.cfg.CalendarID, s.buildEvent(req)).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}

	s.logger.Info("calendar event created", "event_id", inserted.Id, "summary", req.Summary)
	return &Event{Link: meetLink(inserted), EventID: inserted.Id}, nil
}

// Reschedule patches an existing event to the new window, or inserts a
// fresh one when no event id is known.
func (s *GoogleScheduler) Reschedule(ctx context.Context, eventID string, req EventRequest) (*Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return s.Schedule(ctx, req)
	}
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	patched, err := svc.Events.Patch(s.cfg.CalendarID, eventID, s.buildEvent(req)).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: patch event %s: %w", eventID, err)
	}

	id := patched.Id
	if id == "" {
		id = eventID
	}
	s.logger.Info("calendar event rescheduled", "event_id", id, "start", req.Start)
	return &Event{Link: meetLink(patched), EventID: id}, nil
}

func (s *GoogleScheduler) service(ctx context.Context) (*gcal.Service, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" || s.cfg.RedirectURI == "" || s.tokens == nil {
		return nil, ErrNotConfigured
	}
	refreshToken, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar: load refresh token: %w", err)
	}
	if refreshToken == "" {
		return nil, ErrNotConfigured
	}

	oauthCfg := &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURI,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("calendar: init service: %w", err)
	}
	return svc, nil
}

func (s *GoogleScheduler) buildEvent(req EventRequest) *gcal.Event {
	end := req.Start.Add(EventDuration)
	tz := req.Start.Location().String()
	return &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.Format("2006-01-02T15:04:05-07:00"),
			TimeZone: tz,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format("2006-01-02T15:04:05-07:00"),
			TimeZone: tz,
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
}

// meetLink picks the best available conferencing link from the event:
// hangoutLink, then the video entry point, then the plain event page.
func meetLink(ev *gcal.Event) string {
	if ev == nil {
		return ""
	}
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ev.HtmlLink
}
