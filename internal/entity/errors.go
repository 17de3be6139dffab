package entity

import "errors"

// Domain errors for learner progress aggregates.
var (
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrInvalidWordText     = errors.New("invalid weak word text")
	ErrInvalidErrorType    = errors.New("invalid error type")
	ErrInvalidScore        = errors.New("score must be a finite number")
	ErrWeakWordNotFound    = errors.New("weak word not found")
	ErrWordAlreadyMastered = errors.New("word already mastered")
	ErrInvalidPhraseText   = errors.New("invalid phrase text")
	ErrInvalidPhraseSource = errors.New("invalid phrase source")
	ErrInvalidPhraseStatus = errors.New("invalid phrase status")
	ErrDuplicatePhrase     = errors.New("phrase already saved")
	ErrPhraseNotFound      = errors.New("phrase not found")
	ErrInvalidFilter       = errors.New("invalid filter expression")
	ErrInvalidSettings     = errors.New("invalid user settings")
	ErrInvalidWeeklyGoal   = errors.New("invalid weekly goal")
	ErrInvalidBackup       = errors.New("invalid backup payload")
	ErrStorage             = errors.New("storage failure")
	ErrCorruptRecord       = errors.New("corrupt stored record")
)

// ErrorKind groups domain errors into the categories callers branch on.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindInvalid         ErrorKind = "invalid"
	KindNotFound        ErrorKind = "not_found"
	KindDuplicate       ErrorKind = "duplicate"
	KindAlreadyMastered ErrorKind = "already_mastered"
	KindStorage         ErrorKind = "storage"
	KindCorrupt         ErrorKind = "corrupt"
	KindUnknown         ErrorKind = "unknown"
)

var errorKinds = []struct {
	target error
	kind   ErrorKind
}{
	{ErrWordAlreadyMastered, KindAlreadyMastered},
	{ErrDuplicatePhrase, KindDuplicate},
	{ErrWeakWordNotFound, KindNotFound},
	{ErrPhraseNotFound, KindNotFound},
	{ErrCorruptRecord, KindCorrupt},
	{ErrStorage, KindStorage},
	{ErrInvalidUserID, KindInvalid},
	{ErrInvalidWordText, KindInvalid},
	{ErrInvalidErrorType, KindInvalid},
	{ErrInvalidScore, KindInvalid},
	{ErrInvalidPhraseText, KindInvalid},
	{ErrInvalidPhraseSource, KindInvalid},
	{ErrInvalidPhraseStatus, KindInvalid},
	{ErrInvalidFilter, KindInvalid},
	{ErrInvalidSettings, KindInvalid},
	{ErrInvalidWeeklyGoal, KindInvalid},
	{ErrInvalidBackup, KindInvalid},
}

// KindOf classifies err. Wrapped errors are unwrapped with errors.Is.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, candidate := range errorKinds {
		if errors.Is(err, candidate.target) {
			return candidate.kind
		}
	}
	return KindUnknown
}
