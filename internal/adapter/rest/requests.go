package rest

import (
	"github.com/eslsoft/speaktrack/internal/entity"
)

type saveWeakWordRequest struct {
	Word          string   `json:"word" validate:"required"`
	ErrorType     string   `json:"error_type" validate:"omitempty,oneof=mispronunciation substitution deletion insertion"`
	ErrorCount    *int     `json:"error_count" validate:"omitempty,min=0"`
	LastScore     *float64 `json:"last_score"`
	SuccessStreak *int     `json:"success_streak" validate:"omitempty,min=0"`
}

func (req saveWeakWordRequest) input() (entity.WeakWordInput, error) {
	errorType, err := entity.ParseErrorType(req.ErrorType)
	if err != nil {
		return entity.WeakWordInput{}, err
	}
	return entity.WeakWordInput{
		Word:          req.Word,
		ErrorType:     errorType,
		ErrorCount:    req.ErrorCount,
		LastScore:     req.LastScore,
		SuccessStreak: req.SuccessStreak,
	}, nil
}

type scoreRequest struct {
	Score *float64 `json:"score" validate:"required"`
}

type evaluationRequest struct {
	OverallScore *float64                `json:"overall_score" validate:"required"`
	TrickyWords  []entity.WordEvaluation `json:"tricky_words"`
}

type savePhraseRequest struct {
	TextEN  string `json:"text_en" validate:"required"`
	TextVI  string `json:"text_vi"`
	Source  string `json:"source"`
	Topic   string `json:"topic"`
	CoachID string `json:"coach_id"`
}

func (req savePhraseRequest) input() (entity.PhraseInput, error) {
	source, err := entity.ParsePhraseSource(req.Source)
	if err != nil {
		return entity.PhraseInput{}, err
	}
	return entity.PhraseInput{
		TextEN:  req.TextEN,
		TextVI:  req.TextVI,
		Source:  source,
		Topic:   req.Topic,
		CoachID: req.CoachID,
	}, nil
}

type goalRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1"`
}

type goalResponse struct {
	Minutes int `json:"minutes"`
}

type sessionResponse struct {
	Count int `json:"count"`
}
