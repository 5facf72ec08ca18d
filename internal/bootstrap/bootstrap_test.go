package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	errServe := errors.New("listen failed")
	errClose := errors.New("close failed")

	tests := []struct {
		name        string
		serve       func(ctx context.Context, cancel context.CancelFunc) error
		closeErr    error
		wantErr     error
		wantClosers []string
	}{
		{
			name:        "serve finishes",
			serve:       func(context.Context, context.CancelFunc) error { return nil },
			wantClosers: []string{"server", "store"},
		},
		{
			name:    "serve fails",
			serve:   func(context.Context, context.CancelFunc) error { return errServe },
			wantErr: errServe,
		},
		{
			name: "context cancelled",
			serve: func(ctx context.Context, cancel context.CancelFunc) error {
				cancel()
				<-ctx.Done()
				return nil
			},
			wantClosers: []string{"server", "store"},
		},
		{
			name: "closer fails",
			serve: func(ctx context.Context, cancel context.CancelFunc) error {
				cancel()
				<-ctx.Done()
				return nil
			},
			closeErr:    errClose,
			wantErr:     errClose,
			wantClosers: []string{"server", "store"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			var mu sync.Mutex
			var closed []string
			closer := func(name string, err error) func(context.Context) error {
				return func(ctx context.Context) error {
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline)
					mu.Lock()
					defer mu.Unlock()
					closed = append(closed, name)
					return err
				}
			}
			app.OnShutdown(closer("store", tt.closeErr))
			app.OnShutdown(closer("server", nil))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			err := app.Run(ctx, func(ctx context.Context) error {
				return tt.serve(ctx, cancel)
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, tt.wantClosers, closed)
		})
	}
}

func TestApp_OnShutdownDuringServe(t *testing.T) {
	app := New()
	called := false

	ctx, cancel := context.WithCancel(context.Background())
	err := app.Run(ctx, func(ctx context.Context) error {
		app.OnShutdown(func(context.Context) error {
			called = true
			return nil
		})
		cancel()
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
