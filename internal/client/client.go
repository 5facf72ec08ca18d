// Package client calls a remote study service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/Satvik374/Study-App/internal/api"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/learning"
)

const defaultRetryDelay = 100 * time.Millisecond

// Client speaks the Connect protocol with JSON bodies.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewClient(cfg config.RemoteConfig) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Connect-Protocol-Version", "1")
	client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	return &Client{
		httpClient:       client,
		maxRetryAttempts: uint(cfg.RetryAttempts),
		retryDelay:       defaultRetryDelay,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// ResponseError is an error returned by the service.
type ResponseError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// isRetryableError reports whether a call may succeed when tried again:
// network failures, 5xx responses and rate limiting.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var responseErr *ResponseError
	if errors.As(err, &responseErr) {
		return responseErr.StatusCode >= http.StatusInternalServerError ||
			responseErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func (client *Client) ComputeDiff(ctx context.Context, reference, candidate string) (api.ComputeDiffResponse, error) {
	return call[api.ComputeDiffRequest, api.ComputeDiffResponse](ctx, client, api.StudyServiceComputeDiffProcedure, &api.ComputeDiffRequest{
		Reference: reference,
		Candidate: candidate,
	})
}

func (client *Client) GenerateBlanks(ctx context.Context, text string) (api.GenerateBlanksResponse, error) {
	return call[api.GenerateBlanksRequest, api.GenerateBlanksResponse](ctx, client, api.StudyServiceGenerateBlanksProcedure, &api.GenerateBlanksRequest{
		Text: text,
	})
}

func (client *Client) UpdateSchedule(ctx context.Context, itemID string, quality int) (learning.ReviewState, error) {
	res, err := call[api.UpdateScheduleRequest, api.UpdateScheduleResponse](ctx, client, api.StudyServiceUpdateScheduleProcedure, &api.UpdateScheduleRequest{
		ItemID:  itemID,
		Quality: quality,
	})
	if err != nil {
		return learning.ReviewState{}, err
	}
	return res.State, nil
}

func (client *Client) ListDueItems(ctx context.Context) (api.ListDueItemsResponse, error) {
	return call[api.ListDueItemsRequest, api.ListDueItemsResponse](ctx, client, api.StudyServiceListDueItemsProcedure, &api.ListDueItemsRequest{})
}

func call[Req, Res any](ctx context.Context, client *Client, procedure string, req *Req) (Res, error) {
	var result Res
	if err := retry.Do(
		func() error {
			response, err := post[Req, Res](ctx, client, procedure, req)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Debug("retry a remote call", "procedure", procedure, "error", err)
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		var zero Res
		return zero, fmt.Errorf("call(%s) > %w", procedure, err)
	}
	return result, nil
}

func post[Req, Res any](ctx context.Context, client *Client, procedure string, req *Req) (Res, error) {
	var zero Res
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(new(Res)).
		Post(procedure)
	if err != nil {
		return zero, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		responseErr := &ResponseError{StatusCode: response.StatusCode()}
		if err := json.Unmarshal([]byte(response.String()), responseErr); err != nil {
			responseErr.Message = response.String()
		}
		return zero, responseErr
	}

	result, ok := response.Result().(*Res)
	if !ok || result == nil {
		return zero, fmt.Errorf("empty response body: %s", response.String())
	}
	return *result, nil
}
