package model

import "testing"

func TestFormatTrackKind(t *testing.T) {
	video := Format{ID: "137", VideoCodec: "avc1.640028", AudioCodec: "none"}
	if !video.IsVideo() {
		t.Error("Expected format with video codec to be video")
	}
	if video.IsAudio() {
		t.Error("Expected format with acodec 'none' to not be audio")
	}

	audio := Format{ID: "251", VideoCodec: "none", AudioCodec: "opus"}
	if audio.IsVideo() {
		t.Error("Expected format with vcodec 'none' to not be video")
	}
	if !audio.IsAudio() {
		t.Error("Expected format with audio codec to be audio")
	}

	empty := Format{ID: "sb0"}
	if empty.IsVideo() || empty.IsAudio() {
		t.Error("Expected format without codecs to be neither audio nor video")
	}
}

func TestFormatIsStoryboard(t *testing.T) {
	sb := Format{ID: "sb0", Note: "storyboard"}
	if !sb.IsStoryboard() {
		t.Error("Expected storyboard note to be detected")
	}
	if (Format{ID: "137", Note: "1080p"}).IsStoryboard() {
		t.Error("Expected non-storyboard note to not be detected")
	}
}

func TestThumbnailExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://i.ytimg.com/vi/abc/maxresdefault.jpg", "jpg"},
		{"https://i.ytimg.com/vi_webp/abc/maxresdefault.webp?sqp=xyz", "webp"},
		{"https://i.ytimg.com/vi/abc/frame", ""},
		{"", ""},
	}
	for _, tt := range tests {
		info := VideoInfo{ThumbnailURL: tt.url}
		if got := info.ThumbnailExt(); got != tt.want {
			t.Errorf("ThumbnailExt(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFormatLabel(t *testing.T) {
	video := Format{ID: "137", Note: "1080p", VideoCodec: "avc1", Width: 1920, Height: 1080, FPS: 30}
	label := video.Label()
	if label != "137 | 1920x1080 | 30fps | 1080p" {
		t.Errorf("Unexpected video label: %q", label)
	}

	audio := Format{ID: "251", Note: "medium", AudioCodec: "opus", AudioExt: "webm"}
	if audio.Label() != "251 | webm | medium" {
		t.Errorf("Unexpected audio label: %q", audio.Label())
	}
}
