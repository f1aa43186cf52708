package review

import "errors"

// Caller-fault and not-found conditions. The HTTP layer maps these with
// errors.Is; everything else surfaces as an opaque internal failure.
var (
	// ErrNoInput: the request carried none of video_url, image_url, image data.
	ErrNoInput = errors.New("no content provided: either video_url, image_url, or image_data must be provided")

	// ErrAmbiguousInput: more than one content kind in a single request.
	ErrAmbiguousInput = errors.New("ambiguous content: multiple inputs provided, please provide only one")

	// ErrUnsupportedFile: an upload that is not an image.
	ErrUnsupportedFile = errors.New("unsupported file type: only image files are supported")

	// ErrMalformedResponse: a schema-constrained model call returned a payload
	// that does not parse. Unexpected on the structured path, so it is terminal.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUploadNotFound: a locate call referenced an upload id that is not
	// cached and no fallback image URL was supplied.
	ErrUploadNotFound = errors.New("uploaded image not found")
)
