package domain

import (
	"context"
	"errors"
)

// Scorer is the external scoring collaborator. A failed or absent response
// is the caller's problem to absorb; Scorer implementations just report it.
type Scorer interface {
	Score(ctx context.Context, req AnalyzeRequest) (ScoreResult, error)
}

type Service interface {
	// Analyze scores the submitted record and persists a fraud alert iff
	// the scorer flags it suspicious. Scorer failure degrades to a safe
	// not-suspicious default and never fails the call.
	Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error)
}

var (
	ErrInvalidAnalysisType = errors.New("invalid_analysis_type")
	ErrInvalidClaim        = errors.New("invalid_claim")
	ErrInvalidPrescription = errors.New("invalid_prescription")
)
