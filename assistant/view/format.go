package view

import (
	"fmt"
	"regexp"
)

var (
	youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)
	youtubeIDPattern  = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)
)

func IsYouTubeURL(raw string) bool {
	return youtubeURLPattern.MatchString(raw)
}

// YouTubeVideoID returns the 11-character video id, or "" when the url does
// not carry one.
func YouTubeVideoID(raw string) string {
	m := youtubeIDPattern.FindStringSubmatch(raw)
	if len(m) < 3 || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}

func FormatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
