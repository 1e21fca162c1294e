package monarch

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRecord string
		wantStream string
	}{
		{"full reply", "Record:READY,Foo,ON", "READY", "ON"},
		{"empty stream field", "Record:READY,Foo,", "READY", ""},
		{"short reply", "Record:ON", "ON", ""},
		{"no colon", "READY,Foo,ON", "", "ON"},
		{"extra colons dropped", "Record:ON:2,Foo,READY", "ON", "READY"},
		{"empty record segment", "Record::ON,Foo,READY", "", "READY"},
		{"trailing space trimmed", "Record:ON,Foo,READY ", "ON", "READY"},
		{"inner space kept", "Record:ON,Foo, READY ", "ON", " READY"},
		{"trailing newline", "Record:ON,Foo,READY\r\n", "ON", "READY"},
		{"empty body", "", "", ""},
		{"whitespace body", "  \n", "", ""},
		{"device layout", "RECORD:ON,STREAM:RTMP,ON,NAME:x", "ON", "ON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatus(tt.body)
			if got.Record != tt.wantRecord || got.Stream != tt.wantStream {
				t.Fatalf("ParseStatus(%q) = %q/%q, want %q/%q", tt.body, got.Record, got.Stream, tt.wantRecord, tt.wantStream)
			}
			if got.Raw != tt.body {
				t.Fatalf("Raw = %q, want %q", got.Raw, tt.body)
			}
		})
	}
}

func TestStatusEmpty(t *testing.T) {
	if !ParseStatus(" ").Empty() {
		t.Fatal("Empty() = false for blank body")
	}
	if ParseStatus("Record:ON").Empty() {
		t.Fatal("Empty() = true for non-blank body")
	}
}

func TestIsBusy(t *testing.T) {
	if !isBusy("FAILED, RETRY later") {
		t.Fatal("isBusy = false, want true")
	}
	if isBusy("retry") {
		t.Fatal("isBusy is case sensitive; lowercase should not match")
	}
}
