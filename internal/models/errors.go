package models

import "errors"

var (
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrInvalidBar        = errors.New("invalid bar (high < low)")
	ErrInvalidVolume     = errors.New("invalid volume")
	ErrUnsortedSeries    = errors.New("bar dates must be strictly increasing")
	ErrUnknownIndicator  = errors.New("unknown indicator")
	ErrNoTickers         = errors.New("at least one ticker is required")
	ErrNoData            = errors.New("no price data")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidDateRange  = errors.New("start date must be before end date")
	ErrGeneratorDisabled = errors.New("text generation is not configured")
)
