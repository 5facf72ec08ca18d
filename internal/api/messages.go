package api

import (
	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
)

type ComputeDiffRequest struct {
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`
}

type ComputeDiffResponse struct {
	Ops   []diff.Op `json:"ops"`
	Score float64   `json:"score"`
}

type GenerateBlanksRequest struct {
	Text string `json:"text" validate:"required"`
}

type GenerateBlanksResponse struct {
	Display  string        `json:"display"`
	Answers  []cloze.Blank `json:"answers"`
	Original string        `json:"original"`
}

type UpdateScheduleRequest struct {
	ItemID  string `json:"itemId" validate:"required"`
	Quality int    `json:"quality" validate:"gte=0,lte=5"`
}

type UpdateScheduleResponse struct {
	State learning.ReviewState `json:"state"`
}

type ListDueItemsRequest struct{}

type ListDueItemsResponse struct {
	Items []notebook.Item `json:"items"`
	Count int             `json:"count"`
}

type StartSessionRequest struct {
	Mode             string   `json:"mode" validate:"required,oneof=written blanks flashcard"`
	Scope            string   `json:"scope" validate:"required,oneof=all all-qa all-def specific due"`
	ChapterIDs       []string `json:"chapterIds" validate:"dive,required"`
	ItemID           string   `json:"itemId" validate:"required_if=Scope specific"`
	Tag              string   `json:"tag"`
	TimeLimitSeconds int      `json:"timeLimitSeconds" validate:"gte=0,lte=3600"`
}

type StartSessionResponse struct {
	SessionID string   `json:"sessionId"`
	Question  Question `json:"question"`
}

// Question is what the client shows. The back of a card is only sent in
// flashcard sessions.
type Question struct {
	ItemID      string `json:"itemId"`
	Number      int    `json:"number"`
	Total       int    `json:"total"`
	Mode        string `json:"mode"`
	Label       string `json:"label"`
	Text        string `json:"text"`
	Location    string `json:"location"`
	Attempt     int    `json:"attempt"`
	TimeLimitMs int64  `json:"timeLimitMs,omitempty"`
	BackLabel   string `json:"backLabel,omitempty"`
	Answer      string `json:"answer,omitempty"`
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Answer    string `json:"answer" validate:"required"`
}

type Feedback struct {
	ItemID         string        `json:"itemId"`
	Ops            []diff.Op     `json:"ops"`
	Score          float64       `json:"score"`
	Quality        int           `json:"quality"`
	CorrectAnswer  string        `json:"correctAnswer"`
	Blanks         []cloze.Blank `json:"blanks,omitempty"`
	TimedOut       bool          `json:"timedOut"`
	Requeued       bool          `json:"requeued"`
	IsLastQuestion bool          `json:"isLastQuestion"`
	CanFinish      bool          `json:"canFinish"`
}

type SubmitAnswerResponse struct {
	Feedback Feedback `json:"feedback"`
}

type RateCardRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"oneof=1 5"`
}

// NextResponse tells the client what to show after a step. Question is nil
// once every question has been handled.
type NextResponse struct {
	Done     bool      `json:"done"`
	Question *Question `json:"question,omitempty"`
}

type AdvanceRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type FinishSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type FinishSessionResponse struct {
	Mode         string                 `json:"mode"`
	AverageScore float64                `json:"averageScore"`
	Attempts     int                    `json:"attempts"`
	ItemCount    int                    `json:"itemCount"`
	Reviewed     int                    `json:"reviewed"`
	ElapsedMs    int64                  `json:"elapsedMs"`
	History      *learning.HistoryEntry `json:"history,omitempty"`
}

type AbandonSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type AbandonSessionResponse struct{}
