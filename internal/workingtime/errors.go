package workingtime

import "errors"

var (
	// ErrInvalidArgument is returned for date strings in an unaccepted format
	// and for negative minute counts.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConfigurationGap is returned when a window is required for a weekday
	// that has none.
	ErrConfigurationGap = errors.New("weekday has no working window")
	// ErrConfigurationInvalid is returned by Config.Validate and by day walks
	// that find no working day within MaxLookahead days.
	ErrConfigurationInvalid = errors.New("invalid working time configuration")
)
