package main

import "errors"

// Sentinel errors
var (
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrCheckFailed       = errors.New("some programs failed to check")
	ErrFileNotFormatted  = errors.New("file is not formatted")
	ErrFormattingErrors  = errors.New("some files had formatting errors")
	ErrWatchNeedsFile    = errors.New("--watch requires an input file")
)
