package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type uploadCall struct {
	Filename string
	Folder   string
}

type fakeUploader struct {
	mu    sync.Mutex
	calls []uploadCall
	err   error
	block bool
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, uploadCall{Filename: filename, Folder: folder})
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return "https://res.cloudinary.com/demo/" + folder + "/" + filename, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []models.Email
	err    error
	onSend func(models.Email)
}

func (f *fakeNotifier) Send(ctx context.Context, e models.Email) error {
	if f.onSend != nil {
		f.onSend(e)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return f.err
}

// scriptedStore wraps a real store and injects failures.
type scriptedStore struct {
	models.DocumentStore
	creates   int
	createErr error
	updateErr func(fields map[string]any) error
}

func (s *scriptedStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	s.creates++
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.DocumentStore.Create(ctx, collection, doc)
}

func (s *scriptedStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if s.updateErr != nil {
		if err := s.updateErr(fields); err != nil {
			return err
		}
	}
	return s.DocumentStore.Update(ctx, collection, id, fields)
}

var errBoom = errors.New("boom")

type fixture struct {
	mem           *models.MemoryStore
	store         *scriptedStore
	uploader      *fakeUploader
	notifier      *fakeNotifier
	capacity      *CapacityService
	registrations *RegistrationService
	verification  *VerificationService
	events        *EventService
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	t.Helper()
	mem := models.NewMemoryStore()
	f := &fixture{
		mem:      mem,
		store:    &scriptedStore{DocumentStore: mem},
		uploader: &fakeUploader{},
		notifier: &fakeNotifier{},
	}
	log := discardLogger()
	f.capacity = NewCapacityService(f.store, timeout)
	f.registrations = NewRegistrationService(f.store, f.uploader, f.capacity, log, timeout)
	f.verification = NewVerificationService(f.store, f.notifier, f.capacity, log, timeout)
	f.events = NewEventService(f.store, f.uploader, f.capacity, log, timeout)
	f.capacity.now = clock
	f.registrations.now = clock
	f.verification.now = clock
	f.events.now = clock
	return f
}

func (f *fixture) seedEvent(t *testing.T, e models.Event) string {
	t.Helper()
	if e.Title == "" {
		e.Title = "Hack Night"
	}
	if e.EndTime.IsZero() {
		e.EndTime = fixedNow.Add(48 * time.Hour)
	}
	id, err := f.mem.Create(context.Background(), models.EventsCol, &e)
	require.NoError(t, err)
	return id
}

func (f *fixture) seedRegistration(t *testing.T, eventID string, verified bool) string {
	t.Helper()
	reg := &models.Registration{
		EventID:      eventID,
		EventName:    "Hack Night",
		Lead:         lead(),
		TeamMembers:  []models.Member{},
		RegisteredAt: fixedNow.Add(-time.Hour),
		Verified:     verified,
	}
	id, err := f.mem.Create(context.Background(), models.RegistrationsCol, reg)
	require.NoError(t, err)
	return id
}

func (f *fixture) registration(t *testing.T, id string) models.Registration {
	t.Helper()
	var reg models.Registration
	require.NoError(t, f.mem.Get(context.Background(), models.RegistrationsCol, id, &reg))
	return reg
}

func member(name string) models.Member {
	return models.Member{
		Name:       name,
		RegNo:      "RA" + strings.ToUpper(name),
		Phone:      "9000000000",
		Department: "CSE",
		Year:       "2",
		Section:    "A",
	}
}

func lead() models.Lead {
	return models.Lead{Member: member("lead"), Email: "lead@uni.edu"}
}

func request(teamSize int) *RegistrationRequest {
	req := &RegistrationRequest{Lead: lead()}
	for i := 1; i < teamSize; i++ {
		req.TeamMembers = append(req.TeamMembers, member(string(rune('a'+i))))
	}
	return req
}

func proof() *Upload {
	return &Upload{Filename: "receipt.png", Content: strings.NewReader("png-bytes")}
}
