package collector

import "errors"

var (
	ErrInvalidURL    = errors.New("collector: invalid base URL")
	ErrReportFailed  = errors.New("collector: report failed")
	ErrNilDocument   = errors.New("collector: nil document")
	ErrInvalidBody   = errors.New("collector: invalid document")
	ErrWrongKind     = errors.New("collector: unexpected document type")
	ErrWrongProtocol = errors.New("collector: unsupported protocol version")
)
