package feedback

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/monarchctl/internal/state"
)

func TestEvaluate(t *testing.T) {
	snap := state.Snapshot{RecordStatus: "ON", StreamStatus: "READY"}
	fg, bg := lipgloss.Color("#111111"), lipgloss.Color("#222222")

	tests := []struct {
		name  string
		rule  Rule
		match bool
	}{
		{"recording match", Rule{Kind: KindRecording, Expected: "ON", Foreground: fg, Background: bg}, true},
		{"recording mismatch", Rule{Kind: KindRecording, Expected: "READY", Foreground: fg, Background: bg}, false},
		{"streaming match", Rule{Kind: KindStreaming, Expected: "READY", Foreground: fg, Background: bg}, true},
		{"case sensitive", Rule{Kind: KindStreaming, Expected: "ready", Foreground: fg, Background: bg}, false},
		{"no trimming", Rule{Kind: KindRecording, Expected: " ON", Foreground: fg, Background: bg}, false},
		{"unknown kind", Rule{Kind: "bogus", Expected: "ON", Foreground: fg, Background: bg}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.rule, snap)
			if ok != tt.match {
				t.Fatalf("Evaluate ok = %v, want %v", ok, tt.match)
			}
			if ok && (got.Foreground != fg || got.Background != bg) {
				t.Fatalf("Evaluate = %+v, want fg=%s bg=%s", got, fg, bg)
			}
			if !ok && got != (Override{}) {
				t.Fatalf("Evaluate returned colours without a match: %+v", got)
			}
		})
	}
}

func TestDefaultRuleMatchesSentinel(t *testing.T) {
	s := state.NewStore(nil)
	rule := DefaultRule(KindRecording)
	if _, ok := Evaluate(rule, s.Snapshot()); !ok {
		t.Fatal("default rule should match the N/A sentinel")
	}
	s.SetStatus(state.VarRecordStatus, "ON")
	if _, ok := Evaluate(rule, s.Snapshot()); ok {
		t.Fatal("default rule should not match ON")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" streaming_status "); err != nil || k != KindStreaming {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("volume"); err == nil {
		t.Fatal("ParseKind(volume) returned nil error")
	}
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	if len(defs) != 2 || defs[0].Kind != KindRecording || defs[1].Kind != KindStreaming {
		t.Fatalf("Definitions() = %+v", defs)
	}
	defs[0].Choices[0] = "mutated"
	if Definitions()[0].Choices[0] != "ON" {
		t.Fatal("Definitions() exposes internal choices")
	}
	for _, d := range defs {
		if d.Kind.Variable() != d.Variable {
			t.Fatalf("%s watches %q, definition says %q", d.Kind, d.Kind.Variable(), d.Variable)
		}
	}
}

func TestOverrideStyle(t *testing.T) {
	o := Override{Foreground: "#FFFFFF", Background: "#000000"}
	st := o.Style()
	if st.GetForeground() != lipgloss.Color("#FFFFFF") || st.GetBackground() != lipgloss.Color("#000000") {
		t.Fatalf("Style colours = %v/%v", st.GetForeground(), st.GetBackground())
	}
}
