package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/mail"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

func validInput() ContactInput {
	return ContactInput{Name: "Ann", Email: "ann@x.com", Message: "Hi"}
}

func newTestContactService(
	subs *mockSubmissionRepository,
	members *mockSubscriberRepository,
	analytics *mockAnalyticsService,
	notifier *mockNotifier,
) *contactServiceImpl {
	if subs == nil {
		subs = &mockSubmissionRepository{}
	}
	if members == nil {
		members = &mockSubscriberRepository{}
	}
	if analytics == nil {
		analytics = &mockAnalyticsService{}
	}
	if notifier == nil {
		notifier = &mockNotifier{}
	}
	return NewContactService(subs, members, analytics, notifier).(*contactServiceImpl)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestContactService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   ContactInput
		want string
	}{
		{"missing name", ContactInput{Email: "a@x.com", Message: "m"}, "Name is required"},
		{"missing email", ContactInput{Name: "A", Message: "m"}, "Email is required"},
		{"missing message", ContactInput{Name: "A", Email: "a@x.com"}, "Message is required"},
		{"name checked first", ContactInput{}, "Name is required"},
		{"bad email", ContactInput{Name: "A", Email: "not-an-email", Message: "m"}, "Invalid email address format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := false
			svc := newTestContactService(&mockSubmissionRepository{
				saveFunc: func(ctx context.Context, s *model.ContactSubmission) error {
					saved = true
					return nil
				},
			}, nil, nil, nil)

			_, err := svc.Submit(context.Background(), tt.in, model.RequestMeta{})
			v, ok := IsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if v.Message != tt.want {
				t.Errorf("message = %q, want %q", v.Message, tt.want)
			}
			if saved {
				t.Error("nothing should be persisted on validation failure")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestContactService_Submit_StoresSanitizedSubmission(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("PKT", 5*3600))
	var saved *model.ContactSubmission
	svc := newTestContactService(&mockSubmissionRepository{
		saveFunc: func(ctx context.Context, s *model.ContactSubmission) error {
			saved = s
			return nil
		},
	}, nil, nil, nil)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() string { return "id-1" }

	in := validInput()
	in.Name = "  <b>Ann</b>  "
	in.Message = strings.Repeat("x", 2500)
	in.Company = `<a href="javascript:alert(1)">Acme</a>`
	meta := model.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "curl/8"}

	res, err := svc.Submit(context.Background(), in, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SubmissionID != "id-1" || saved.SubmissionID != "id-1" {
		t.Errorf("submission id = %q / %q", res.SubmissionID, saved.SubmissionID)
	}
	if saved.Name != "Ann" {
		t.Errorf("name = %q, want Ann", saved.Name)
	}
	if saved.Company != "Acme" {
		t.Errorf("company = %q, want Acme", saved.Company)
	}
	if len(saved.Message) != 2000 {
		t.Errorf("message length = %d, want 2000", len(saved.Message))
	}
	if saved.Status != model.SubmissionPending {
		t.Errorf("status = %q", saved.Status)
	}
	if !saved.CreatedAt.Equal(fixed) || saved.CreatedAt.Location() != time.UTC {
		t.Errorf("created_at = %v, want %v in UTC", saved.CreatedAt, fixed)
	}
	if saved.Meta != meta {
		t.Errorf("meta = %+v", saved.Meta)
	}
	if !res.AllEmailsSent() {
		t.Error("expected both emails sent")
	}
}

func TestContactService_Submit_DistinctIDs(t *testing.T) {
	svc := NewContactService(&mockSubmissionRepository{}, &mockSubscriberRepository{},
		&mockAnalyticsService{}, &mockNotifier{})

	a, err := svc.Submit(context.Background(), validInput(), model.RequestMeta{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Submit(context.Background(), validInput(), model.RequestMeta{})
	if err != nil {
		t.Fatal(err)
	}
	if a.SubmissionID == "" || a.SubmissionID == b.SubmissionID {
		t.Errorf("expected distinct ids, got %q and %q", a.SubmissionID, b.SubmissionID)
	}
}

func TestContactService_Submit_RecordsAnalytics(t *testing.T) {
	var gotType string
	var gotData map[string]any
	svc := newTestContactService(nil, nil, &mockAnalyticsService{
		recordFunc: func(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
			gotType = eventType
			gotData, _ = data.(map[string]any)
			return nil
		},
	}, nil)

	in := validInput()
	in.ProjectType = "web"
	in.Budget = "5k"
	in.Newsletter = true
	if _, err := svc.Submit(context.Background(), in, model.RequestMeta{}); err != nil {
		t.Fatal(err)
	}
	if gotType != model.EventContactSubmission {
		t.Errorf("event type = %q", gotType)
	}
	if gotData["project_type"] != "web" || gotData["budget"] != "5k" || gotData["newsletter_signup"] != true {
		t.Errorf("event data = %v", gotData)
	}
}

// ---------------------------------------------------------------------------
// Failure handling
// ---------------------------------------------------------------------------

func TestContactService_Submit_SaveErrorSkipsSideEffects(t *testing.T) {
	sideEffects := 0
	svc := newTestContactService(&mockSubmissionRepository{
		saveFunc: func(ctx context.Context, s *model.ContactSubmission) error {
			return errors.New("disk full")
		},
	}, &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			sideEffects++
			return nil
		},
	}, &mockAnalyticsService{
		recordFunc: func(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
			sideEffects++
			return nil
		},
	}, &mockNotifier{
		notifyFunc: func(ctx context.Context, s *model.ContactSubmission) mail.Outcome {
			sideEffects++
			return mail.Outcome{}
		},
	})

	in := validInput()
	in.Newsletter = true
	_, err := svc.Submit(context.Background(), in, model.RequestMeta{})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := IsValidation(err); ok {
		t.Error("persistence failure must not look like a validation error")
	}
	if sideEffects != 0 {
		t.Errorf("side effects ran %d times after failed save", sideEffects)
	}
}

func TestContactService_Submit_MailFailureIsSoft(t *testing.T) {
	svc := newTestContactService(nil, nil, nil, &mockNotifier{
		autoReplyFunc: func(ctx context.Context, s *model.ContactSubmission) mail.Outcome {
			return mail.Outcome{Kind: mail.KindAutoReply, Err: errors.New("timeout")}
		},
	})

	res, err := svc.Submit(context.Background(), validInput(), model.RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Notification.Sent || res.AutoReply.Sent {
		t.Errorf("outcomes = %+v / %+v", res.Notification, res.AutoReply)
	}
	if res.AllEmailsSent() {
		t.Error("AllEmailsSent should be false")
	}
}

func TestContactService_Submit_NewsletterDuplicateIgnored(t *testing.T) {
	var created *model.Subscriber
	svc := newTestContactService(nil, &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			created = s
			return repository.ErrDuplicate
		},
	}, nil, nil)

	in := validInput()
	in.Newsletter = true
	if _, err := svc.Submit(context.Background(), in, model.RequestMeta{}); err != nil {
		t.Fatalf("duplicate newsletter email must not fail the submission: %v", err)
	}
	if created == nil {
		t.Fatal("expected enrollment attempt")
	}
	if created.Email != "ann@x.com" || created.UnsubscribeToken == "" || created.Status != model.SubscriberActive {
		t.Errorf("subscriber = %+v", created)
	}
}

func TestContactService_Submit_NoNewsletterWithoutOptIn(t *testing.T) {
	called := false
	svc := newTestContactService(nil, &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			called = true
			return nil
		},
	}, nil, nil)

	if _, err := svc.Submit(context.Background(), validInput(), model.RequestMeta{}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("subscriber created without opt-in")
	}
}

func TestContactService_Submit_AnalyticsFailureIsSoft(t *testing.T) {
	svc := newTestContactService(nil, nil, &mockAnalyticsService{
		recordFunc: func(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
			return errors.New("locked")
		},
	}, nil)

	if _, err := svc.Submit(context.Background(), validInput(), model.RequestMeta{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
