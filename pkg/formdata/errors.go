package formdata

import "errors"

var (
	// ErrMalformedBody is returned for any structural deviation from the
	// expected multipart shape.
	ErrMalformedBody = errors.New("formdata: malformed body")

	// ErrUnsupportedContentType is returned when the content type is not
	// multipart/form-data with a boundary.
	ErrUnsupportedContentType = errors.New("formdata: unsupported content type")
)

var (
	errMissingSeparator   = errors.New("missing blank line between headers and content")
	errInvalidHeaderLine  = errors.New("invalid header line")
	errMissingDisposition = errors.New("missing Content-Disposition header")
	errInvalidDisposition = errors.New("invalid Content-Disposition header")
)
