package engine

import "testing"

const sampleInfoJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"channel": "Rick Astley",
	"channel_id": "UCuAXFkgsw1L7xaCfnd5JJOw",
	"description": "Official video",
	"tags": ["music", "80s"],
	"categories": ["Music"],
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
	"format_id": "137+251",
	"formats": [
		{"format_id": "sb0", "format_note": "storyboard", "ext": "mhtml", "acodec": "none", "vcodec": "none", "width": null, "height": null},
		{"format_id": "251", "format_note": "medium", "ext": "webm", "acodec": "opus", "vcodec": "none", "audio_ext": "webm", "quality": 3, "filesize": 3400000},
		{"format_id": "137", "format_note": "1080p", "ext": "mp4", "acodec": "none", "vcodec": "avc1.640028", "video_ext": "mp4", "width": 1920, "height": 1080, "fps": 25, "quality": 9, "filesize_approx": 52000000}
	],
	"automatic_captions": {
		"en-orig": [
			{"ext": "vtt", "url": "https://host/caps/en-orig.vtt", "name": "English (Original)"},
			{"ext": "json3", "url": "https://host/caps/en-orig.json3", "name": "English (Original)"}
		]
	}
}`

func TestParseInfoJSON(t *testing.T) {
	info, err := ParseInfoJSON([]byte(sampleInfoJSON))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if info.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected id dQw4w9WgXcQ, got %s", info.ID)
	}
	if info.Title != "Never Gonna Give You Up" {
		t.Errorf("Unexpected title %q", info.Title)
	}
	if info.BestFormatID != "137+251" {
		t.Errorf("Expected suggested format 137+251, got %s", info.BestFormatID)
	}
	if len(info.Formats) != 3 {
		t.Fatalf("Expected 3 formats, got %d", len(info.Formats))
	}

	video := info.Formats[2]
	if !video.IsVideo() || video.IsAudio() {
		t.Error("Expected 137 to be video-only")
	}
	if video.Width != 1920 || video.Height != 1080 || video.FPS != 25 {
		t.Errorf("Unexpected video geometry: %dx%d@%v", video.Width, video.Height, video.FPS)
	}
	if video.FileSize != 52000000 {
		t.Errorf("Expected approx filesize fallback, got %d", video.FileSize)
	}

	audio := info.Formats[1]
	if !audio.IsAudio() || audio.IsVideo() {
		t.Error("Expected 251 to be audio-only")
	}
	if audio.FileSize != 3400000 {
		t.Errorf("Expected exact filesize, got %d", audio.FileSize)
	}

	if info.Formats[0].Note != "storyboard" || !info.Formats[0].IsStoryboard() {
		t.Error("Expected storyboard format to be preserved and tagged")
	}

	tracks := info.Captions["en-orig"]
	if len(tracks) != 2 {
		t.Fatalf("Expected 2 caption tracks, got %d", len(tracks))
	}
	if tracks[0].Ext != "vtt" || tracks[0].URL != "https://host/caps/en-orig.vtt" {
		t.Errorf("Unexpected caption track: %+v", tracks[0])
	}

	if info.ThumbnailExt() != "jpg" {
		t.Errorf("Expected thumbnail ext jpg, got %s", info.ThumbnailExt())
	}
}

func TestParseInfoJSONInvalid(t *testing.T) {
	if _, err := ParseInfoJSON([]byte("{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := ParseInfoJSON([]byte(`{"title": "no id"}`)); err == nil {
		t.Error("Expected error for metadata without a video id")
	}
}
