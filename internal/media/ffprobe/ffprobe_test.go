package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if !result.HasVideo() {
		t.Fatal("expected HasVideo")
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	seconds, ok := result.DurationSeconds()
	if !ok || seconds != 123.45 {
		t.Fatalf("unexpected duration: %v ok=%v", seconds, ok)
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Duration: "1418.2"},
			{CodecType: "audio", Duration: "1417.9"},
		},
	}
	seconds, ok := result.DurationSeconds()
	if !ok || seconds != 1418.2 {
		t.Fatalf("unexpected duration: %v ok=%v", seconds, ok)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if _, ok := result.DurationSeconds(); ok {
		t.Fatal("expected no duration")
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}
