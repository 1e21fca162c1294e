package monarch

import (
	"fmt"
	"slices"
	"strings"
)

// Command is the literal value passed in the sdk.aspx command query parameter.
type Command string

const (
	CommandStartStreaming             Command = "StartStreaming"
	CommandStartRecording             Command = "StartRecording"
	CommandStartStreamingAndRecording Command = "StartStreamingAndRecording"
	CommandStopStreaming              Command = "StopStreaming"
	CommandStopRecording              Command = "StopRecording"
	CommandStopStreamingAndRecording  Command = "StopStreamingAndRecording"
	CommandGetStatus                  Command = "GetStatus"
)

// Action is a user-facing operation exposed to the control surface. Each
// action maps to exactly one device Command.
type Action string

const (
	ActionStartStreaming          Action = "start-streaming"
	ActionStartRecording          Action = "start-recording"
	ActionStartRecordingStreaming Action = "start-recording-streaming"
	ActionStopStreaming           Action = "stop-streaming"
	ActionStopRecording           Action = "stop-recording"
	ActionStopRecordingStreaming  Action = "stop-recording-streaming"
)

type actionInfo struct {
	label   string
	short   string
	command Command
	starts  bool
}

var actionTable = map[Action]actionInfo{
	ActionStartStreaming:          {label: "Start Streaming", short: "Start Stream", command: CommandStartStreaming, starts: true},
	ActionStartRecording:          {label: "Start Recording", short: "Start Rec", command: CommandStartRecording, starts: true},
	ActionStartRecordingStreaming: {label: "Start Recording & Streaming", short: "Start Both", command: CommandStartStreamingAndRecording, starts: true},
	ActionStopStreaming:           {label: "Stop Streaming", short: "Stop Stream", command: CommandStopStreaming},
	ActionStopRecording:           {label: "Stop Recording", short: "Stop Rec", command: CommandStopRecording},
	ActionStopRecordingStreaming:  {label: "Stop Recording & Streaming", short: "Stop Both", command: CommandStopStreamingAndRecording},
}

var actionOrder = []Action{
	ActionStartStreaming,
	ActionStartRecording,
	ActionStartRecordingStreaming,
	ActionStopStreaming,
	ActionStopRecording,
	ActionStopRecordingStreaming,
}

// Control surfaces that predate the kebab-case names address actions by
// their camelCase ids.
var actionAliases = map[string]Action{
	"startstreaming":          ActionStartStreaming,
	"startrecording":          ActionStartRecording,
	"startrecordingstreaming": ActionStartRecordingStreaming,
	"stopstreaming":           ActionStopStreaming,
	"stoprecording":           ActionStopRecording,
	"stoprecordingstreaming":  ActionStopRecordingStreaming,
}

// Actions returns every action in display order.
func Actions() []Action {
	return slices.Clone(actionOrder)
}

// ParseAction resolves a kebab-case action name or its camelCase alias.
func ParseAction(name string) (Action, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if a := Action(trimmed); a.Valid() {
		return a, nil
	}
	if a, ok := actionAliases[trimmed]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	_, ok := actionTable[a]
	return ok
}

// Command returns the device command for a, or "" for unknown actions.
func (a Action) Command() Command {
	return actionTable[a].command
}

// Label returns the long human-readable name.
func (a Action) Label() string {
	if info, ok := actionTable[a]; ok {
		return info.label
	}
	return string(a)
}

// ShortLabel returns the button caption used by panel presets.
func (a Action) ShortLabel() string {
	if info, ok := actionTable[a]; ok {
		return info.short
	}
	return string(a)
}

// Starts reports whether the action starts an operation (as opposed to
// stopping one). Presets colour start buttons green and stop buttons red.
func (a Action) Starts() bool {
	return actionTable[a].starts
}
