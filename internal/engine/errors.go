package engine

import "errors"

var (
	// ErrAnalysisNotFound means the analysis session expired or never existed
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrFlagNotFound means no flag with the given id exists in the analysis
	ErrFlagNotFound = errors.New("flag not found")
	// ErrCharacterNotFound means no character with the given id exists
	ErrCharacterNotFound = errors.New("character not found")
	// ErrSelfMerge means both merge arguments name the same character
	ErrSelfMerge = errors.New("cannot merge a character with itself")
)
