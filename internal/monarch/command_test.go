package monarch

import "testing"

func TestActionsMapToCommands(t *testing.T) {
	want := map[Action]Command{
		ActionStartStreaming:          "StartStreaming",
		ActionStartRecording:          "StartRecording",
		ActionStartRecordingStreaming: "StartStreamingAndRecording",
		ActionStopStreaming:           "StopStreaming",
		ActionStopRecording:           "StopRecording",
		ActionStopRecordingStreaming:  "StopStreamingAndRecording",
	}
	actions := Actions()
	if len(actions) != len(want) {
		t.Fatalf("Actions() len = %d, want %d", len(actions), len(want))
	}
	for _, a := range actions {
		if got := a.Command(); got != want[a] {
			t.Fatalf("%s.Command() = %q, want %q", a, got, want[a])
		}
		if a.Label() == string(a) {
			t.Fatalf("%s has no label", a)
		}
	}
}

func TestActionsReturnsCopy(t *testing.T) {
	a := Actions()
	a[0] = "mutated"
	if Actions()[0] != ActionStartStreaming {
		t.Fatal("Actions() exposes internal slice")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"start-recording", ActionStartRecording},
		{"  Stop-Streaming ", ActionStopStreaming},
		{"startRecordingStreaming", ActionStartRecordingStreaming},
		{"stopRecording", ActionStopRecording},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if err != nil {
			t.Fatalf("ParseAction(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParseAction("reboot"); err == nil {
		t.Fatal("ParseAction(reboot) returned nil error")
	}
}

func TestActionStarts(t *testing.T) {
	if !ActionStartRecording.Starts() || ActionStopRecording.Starts() {
		t.Fatal("Starts() misclassifies start/stop actions")
	}
	if Action("bogus").Command() != "" {
		t.Fatal("unknown action should map to empty command")
	}
}
