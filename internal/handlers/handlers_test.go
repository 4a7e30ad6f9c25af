package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct {
	mu      sync.Mutex
	folders []string
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, folder)
	if f.err != nil {
		return "", f.err
	}
	return "https://res.cloudinary.com/demo/" + folder + "/" + filename, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Email
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, e models.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return f.err
}

type app struct {
	store         *models.MemoryStore
	uploader      *fakeUploader
	notifier      *fakeNotifier
	capacity      *services.CapacityService
	registrations *services.RegistrationService
	verification  *services.VerificationService
	events        *services.EventService
}

func newApp() *app {
	store := models.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := &app{store: store, uploader: &fakeUploader{}, notifier: &fakeNotifier{}}
	a.capacity = services.NewCapacityService(store, time.Second)
	a.registrations = services.NewRegistrationService(store, a.uploader, a.capacity, log, time.Second)
	a.verification = services.NewVerificationService(store, a.notifier, a.capacity, log, time.Second)
	a.events = services.NewEventService(store, a.uploader, a.capacity, log, time.Second)
	return a
}

func (a *app) seedEvent(t *testing.T, e models.Event) string {
	t.Helper()
	if e.Title == "" {
		e.Title = "Hack Night"
	}
	if e.EndTime.IsZero() {
		e.EndTime = time.Now().Add(48 * time.Hour)
	}
	if e.StartTime.IsZero() {
		e.StartTime = e.EndTime.Add(-4 * time.Hour)
	}
	id, err := a.store.Create(context.Background(), models.EventsCol, &e)
	require.NoError(t, err)
	return id
}

func (a *app) seedRegistration(t *testing.T, eventID string, verified bool, at time.Time) string {
	t.Helper()
	reg := &models.Registration{
		EventID:      eventID,
		EventName:    "Hack Night",
		Lead:         models.Lead{Member: member("lead"), Email: "lead@uni.edu"},
		TeamMembers:  []models.Member{},
		RegisteredAt: at,
		Verified:     verified,
	}
	id, err := a.store.Create(context.Background(), models.RegistrationsCol, reg)
	require.NoError(t, err)
	return id
}

func member(name string) models.Member {
	return models.Member{Name: name, RegNo: "RA-" + name, Phone: "9000000000", Department: "CSE", Year: "2", Section: "A"}
}

func registrationBody(t *testing.T, teamMembers int, txnID string) []byte {
	t.Helper()
	req := services.RegistrationRequest{
		Lead:          models.Lead{Member: member("lead"), Email: "lead@uni.edu"},
		TransactionID: txnID,
	}
	for i := 0; i < teamMembers; i++ {
		req.TeamMembers = append(req.TeamMembers, member(string(rune('a'+i))))
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return raw
}

// multipartBody builds a form with a JSON payload field and optional files.
func multipartBody(t *testing.T, payload []byte, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if payload != nil {
		require.NoError(t, mw.WriteField(payloadField, string(payload)))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func perform(h gin.HandlerFunc, method, route, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	r.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Total   int    `json:"total"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// streamRecorder adds what gin's Stream needs on top of a ResponseRecorder
// and reports every flush.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed  chan bool
	flushes chan struct{}
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		closed:           make(chan bool, 1),
		flushes:          make(chan struct{}, 8),
	}
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (r *streamRecorder) Flush() {
	r.ResponseRecorder.Flush()
	select {
	case r.flushes <- struct{}{}:
	default:
	}
}

// waitFlush blocks until the handler has flushed one more event.
func (r *streamRecorder) waitFlush(t *testing.T) {
	t.Helper()
	select {
	case <-r.flushes:
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for a streamed event")
	}
}

// serveStream runs h until drive returns, then cancels the request.
func serveStream(t *testing.T, h gin.HandlerFunc, route, target string, drive func(*streamRecorder)) *streamRecorder {
	t.Helper()
	r := gin.New()
	r.GET(route, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	w := newStreamRecorder()

	go func() {
		drive(w)
		cancel()
	}()
	r.ServeHTTP(w, req)
	return w
}
