// Package api defines the StudyService procedures and the messages they exchange.
package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const StudyServiceName = "studyai.v1.StudyService"

const (
	StudyServiceComputeDiffProcedure    = "/studyai.v1.StudyService/ComputeDiff"
	StudyServiceGenerateBlanksProcedure = "/studyai.v1.StudyService/GenerateBlanks"
	StudyServiceUpdateScheduleProcedure = "/studyai.v1.StudyService/UpdateSchedule"
	StudyServiceListDueItemsProcedure   = "/studyai.v1.StudyService/ListDueItems"
	StudyServiceStartSessionProcedure   = "/studyai.v1.StudyService/StartSession"
	StudyServiceSubmitAnswerProcedure   = "/studyai.v1.StudyService/SubmitAnswer"
	StudyServiceRateCardProcedure       = "/studyai.v1.StudyService/RateCard"
	StudyServiceAdvanceProcedure        = "/studyai.v1.StudyService/Advance"
	StudyServiceFinishSessionProcedure  = "/studyai.v1.StudyService/FinishSession"
	StudyServiceAbandonSessionProcedure = "/studyai.v1.StudyService/AbandonSession"
)

type StudyServiceHandler interface {
	ComputeDiff(context.Context, *connect.Request[ComputeDiffRequest]) (*connect.Response[ComputeDiffResponse], error)
	GenerateBlanks(context.Context, *connect.Request[GenerateBlanksRequest]) (*connect.Response[GenerateBlanksResponse], error)
	UpdateSchedule(context.Context, *connect.Request[UpdateScheduleRequest]) (*connect.Response[UpdateScheduleResponse], error)
	ListDueItems(context.Context, *connect.Request[ListDueItemsRequest]) (*connect.Response[ListDueItemsResponse], error)
	StartSession(context.Context, *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error)
	SubmitAnswer(context.Context, *connect.Request[SubmitAnswerRequest]) (*connect.Response[SubmitAnswerResponse], error)
	RateCard(context.Context, *connect.Request[RateCardRequest]) (*connect.Response[NextResponse], error)
	Advance(context.Context, *connect.Request[AdvanceRequest]) (*connect.Response[NextResponse], error)
	FinishSession(context.Context, *connect.Request[FinishSessionRequest]) (*connect.Response[FinishSessionResponse], error)
	AbandonSession(context.Context, *connect.Request[AbandonSessionRequest]) (*connect.Response[AbandonSessionResponse], error)
}

// NewStudyServiceHandler returns the path prefix to mount the service on and its handler.
func NewStudyServiceHandler(svc StudyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	handlers := map[string]*connect.Handler{
		StudyServiceComputeDiffProcedure:    connect.NewUnaryHandler(StudyServiceComputeDiffProcedure, svc.ComputeDiff, opts...),
		StudyServiceGenerateBlanksProcedure: connect.NewUnaryHandler(StudyServiceGenerateBlanksProcedure, svc.GenerateBlanks, opts...),
		StudyServiceUpdateScheduleProcedure: connect.NewUnaryHandler(StudyServiceUpdateScheduleProcedure, svc.UpdateSchedule, opts...),
		StudyServiceListDueItemsProcedure:   connect.NewUnaryHandler(StudyServiceListDueItemsProcedure, svc.ListDueItems, opts...),
		StudyServiceStartSessionProcedure:   connect.NewUnaryHandler(StudyServiceStartSessionProcedure, svc.StartSession, opts...),
		StudyServiceSubmitAnswerProcedure:   connect.NewUnaryHandler(StudyServiceSubmitAnswerProcedure, svc.SubmitAnswer, opts...),
		StudyServiceRateCardProcedure:       connect.NewUnaryHandler(StudyServiceRateCardProcedure, svc.RateCard, opts...),
		StudyServiceAdvanceProcedure:        connect.NewUnaryHandler(StudyServiceAdvanceProcedure, svc.Advance, opts...),
		StudyServiceFinishSessionProcedure:  connect.NewUnaryHandler(StudyServiceFinishSessionProcedure, svc.FinishSession, opts...),
		StudyServiceAbandonSessionProcedure: connect.NewUnaryHandler(StudyServiceAbandonSessionProcedure, svc.AbandonSession, opts...),
	}
	return "/" + StudyServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// StudyServiceClient calls the service with the Connect protocol.
type StudyServiceClient struct {
	computeDiff    *connect.Client[ComputeDiffRequest, ComputeDiffResponse]
	generateBlanks *connect.Client[GenerateBlanksRequest, GenerateBlanksResponse]
	updateSchedule *connect.Client[UpdateScheduleRequest, UpdateScheduleResponse]
	listDueItems   *connect.Client[ListDueItemsRequest, ListDueItemsResponse]
	startSession   *connect.Client[StartSessionRequest, StartSessionResponse]
	submitAnswer   *connect.Client[SubmitAnswerRequest, SubmitAnswerResponse]
	rateCard       *connect.Client[RateCardRequest, NextResponse]
	advance        *connect.Client[AdvanceRequest, NextResponse]
	finishSession  *connect.Client[FinishSessionRequest, FinishSessionResponse]
	abandonSession *connect.Client[AbandonSessionRequest, AbandonSessionResponse]
}

func NewStudyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *StudyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &StudyServiceClient{
		computeDiff:    connect.NewClient[ComputeDiffRequest, ComputeDiffResponse](httpClient, baseURL+StudyServiceComputeDiffProcedure, opts...),
		generateBlanks: connect.NewClient[GenerateBlanksRequest, GenerateBlanksResponse](httpClient, baseURL+StudyServiceGenerateBlanksProcedure, opts...),
		updateSchedule: connect.NewClient[UpdateScheduleRequest, UpdateScheduleResponse](httpClient, baseURL+StudyServiceUpdateScheduleProcedure, opts...),
		listDueItems:   connect.NewClient[ListDueItemsRequest, ListDueItemsResponse](httpClient, baseURL+StudyServiceListDueItemsProcedure, opts...),
		startSession:   connect.NewClient[StartSessionRequest, StartSessionResponse](httpClient, baseURL+StudyServiceStartSessionProcedure, opts...),
		submitAnswer:   connect.NewClient[SubmitAnswerRequest, SubmitAnswerResponse](httpClient, baseURL+StudyServiceSubmitAnswerProcedure, opts...),
		rateCard:       connect.NewClient[RateCardRequest, NextResponse](httpClient, baseURL+StudyServiceRateCardProcedure, opts...),
		advance:        connect.NewClient[AdvanceRequest, NextResponse](httpClient, baseURL+StudyServiceAdvanceProcedure, opts...),
		finishSession:  connect.NewClient[FinishSessionRequest, FinishSessionResponse](httpClient, baseURL+StudyServiceFinishSessionProcedure, opts...),
		abandonSession: connect.NewClient[AbandonSessionRequest, AbandonSessionResponse](httpClient, baseURL+StudyServiceAbandonSessionProcedure, opts...),
	}
}

func (c *StudyServiceClient) ComputeDiff(ctx context.Context, req *connect.Request[ComputeDiffRequest]) (*connect.Response[ComputeDiffResponse], error) {
	return c.computeDiff.CallUnary(ctx, req)
}

func (c *StudyServiceClient) GenerateBlanks(ctx context.Context, req *connect.Request[GenerateBlanksRequest]) (*connect.Response[GenerateBlanksResponse], error) {
	return c.generateBlanks.CallUnary(ctx, req)
}

func (c *StudyServiceClient) UpdateSchedule(ctx context.Context, req *connect.Request[UpdateScheduleRequest]) (*connect.Response[UpdateScheduleResponse], error) {
	return c.updateSchedule.CallUnary(ctx, req)
}

func (c *StudyServiceClient) ListDueItems(ctx context.Context, req *connect.Request[ListDueItemsRequest]) (*connect.Response[ListDueItemsResponse], error) {
	return c.listDueItems.CallUnary(ctx, req)
}

func (c *StudyServiceClient) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	return c.startSession.CallUnary(ctx, req)
}

func (c *StudyServiceClient) SubmitAnswer(ctx context.Context, req *connect.Request[SubmitAnswerRequest]) (*connect.Response[SubmitAnswerResponse], error) {
	return c.submitAnswer.CallUnary(ctx, req)
}

func (c *StudyServiceClient) RateCard(ctx context.Context, req *connect.Request[RateCardRequest]) (*connect.Response[NextResponse], error) {
	return c.rateCard.CallUnary(ctx, req)
}

func (c *StudyServiceClient) Advance(ctx context.Context, req *connect.Request[AdvanceRequest]) (*connect.Response[NextResponse], error) {
	return c.advance.CallUnary(ctx, req)
}

func (c *StudyServiceClient) FinishSession(ctx context.Context, req *connect.Request[FinishSessionRequest]) (*connect.Response[FinishSessionResponse], error) {
	return c.finishSession.CallUnary(ctx, req)
}

func (c *StudyServiceClient) AbandonSession(ctx context.Context, req *connect.Request[AbandonSessionRequest]) (*connect.Response[AbandonSessionResponse], error) {
	return c.abandonSession.CallUnary(ctx, req)
}
