package domain

import (
	"fmt"
	"strings"
)

// Level identifies the tier of the hierarchy a node or edge belongs to.
type Level string

const (
	LevelProcess Level = "process"
	LevelTask    Level = "task"
	LevelOutcome Level = "outcome"
)

// LevelInfo holds the presentational metadata attached to a level.
type LevelInfo struct {
	Name  string
	Color string
}

var levelInfo = map[Level]LevelInfo{
	LevelProcess: {Name: "Process", Color: "#6366f1"},
	LevelTask:    {Name: "Task", Color: "#10b981"},
	LevelOutcome: {Name: "Outcome", Color: "#f59e0b"},
}

// legacyLevels maps the names used by early exports.
var legacyLevels = map[string]Level{
	"top": LevelProcess,
	"mid": LevelTask,
	"bot": LevelOutcome,
}

// Levels returns every level from the root down.
func Levels() []Level {
	return []Level{LevelProcess, LevelTask, LevelOutcome}
}

// ParseLevel resolves a level name, accepting the legacy top/mid/bot aliases.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if l, ok := legacyLevels[name]; ok {
		return l, nil
	}
	l := Level(name)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelInfo[l]
	return ok
}

// Next returns the level one tier below l.
// ok is false for Outcome, which has no children.
func (l Level) Next() (next Level, ok bool) {
	switch l {
	case LevelProcess:
		return LevelTask, true
	case LevelTask:
		return LevelOutcome, true
	}
	return "", false
}

// Composite reports whether nodes of this level own a child graph.
func (l Level) Composite() bool {
	_, ok := l.Next()
	return ok
}

// Info returns the display metadata for l. Unknown levels get a zero value.
func (l Level) Info() LevelInfo {
	return levelInfo[l]
}

func (l Level) String() string {
	return string(l)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// GateType combines the effective states of a node's required children.
type GateType string

const (
	GateAND  GateType = "AND"
	GateOR   GateType = "OR"
	GateNAND GateType = "NAND"
)

// Valid reports whether g is a known gate.
func (g GateType) Valid() bool {
	switch g {
	case GateAND, GateOR, GateNAND:
		return true
	}
	return false
}

// Status tags an outcome with a severity.
type Status string

const (
	StatusDefault Status = "default"
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDefault, StatusOK, StatusWarning, StatusError, StatusInfo:
		return true
	}
	return false
}
