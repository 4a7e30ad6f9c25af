package services

import (
	"context"
	"io"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

// Uploader stores a file in a folder of the image host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error)
}

// Notifier delivers one email.
type Notifier interface {
	Send(ctx context.Context, e models.Email) error
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}

const DefaultGatewayTimeout = 15 * time.Second

// bounded runs every gateway call under a deadline so a hung dependency
// surfaces as ErrTimeout instead of blocking the request.
type bounded struct {
	timeout time.Duration
	now     func() time.Time
}

func newBounded(timeout time.Duration) bounded {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return bounded{timeout: timeout, now: time.Now}
}

func (b bounded) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b bounded) upload(ctx context.Context, up Uploader, file *Upload, folder string) (string, error) {
	cctx, cancel := b.call(ctx)
	defer cancel()
	url, err := up.Upload(cctx, file.Content, file.Filename, folder)
	if err != nil {
		return "", gatewayError(cctx, ErrUploadFailed, "upload "+file.Filename, err)
	}
	return url, nil
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, e models.Email) error

func (f NotifierFunc) Send(ctx context.Context, e models.Email) error {
	return f(ctx, e)
}
