package review

import "strings"

// UploadedImageID identifies raw-byte submissions that have no URL.
const UploadedImageID = "uploaded_image"

// ExtractVideoID derives a short content id from a video reference:
// the YouTube v= query param, a youtu.be path segment, or a gs:// object
// basename. First matching pattern wins. Unrecognized references return
// (url, false) so the caller can log a warning and use the URL verbatim.
func ExtractVideoID(videoURL string) (string, bool) {
	if _, after, found := strings.Cut(videoURL, "youtube.com/watch?v="); found {
		id, _, _ := strings.Cut(after, "&")
		return id, true
	}
	if _, after, found := strings.Cut(videoURL, "youtu.be/"); found {
		id, _, _ := strings.Cut(after, "?")
		return id, true
	}
	if strings.HasPrefix(videoURL, "gs://") {
		if i := strings.LastIndex(videoURL, "/"); i >= len("gs://") {
			return videoURL[i+1:], true
		}
	}
	return videoURL, false
}

// ImageContentID derives an id from an image URL: the final path segment
// stripped of any query string, or the URL itself when it has no path.
func ImageContentID(imageURL string) string {
	if !strings.Contains(imageURL, "/") {
		return imageURL
	}
	segment := imageURL[strings.LastIndex(imageURL, "/")+1:]
	id, _, _ := strings.Cut(segment, "?")
	return id
}
