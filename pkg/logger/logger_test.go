package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitAndLevelString(t *testing.T) {
	defer Init("info")

	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	setOutput(&buf, "console", "")
	defer setOutput(os.Stdout, "json", "")
	defer Init("info")

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg %d", 42)

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg 42") {
		t.Fatalf("error message missing: %q", out)
	}

	// raising verbosity takes effect without rebuilding the logger
	Init("debug")
	buf.Reset()
	Debug("now-visible")
	if !strings.Contains(buf.String(), "now-visible") {
		t.Fatalf("debug expected after Init(debug), got: %q", buf.String())
	}
}

func TestJSONOutputCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	setOutput(&buf, "json", "bloodsync-api")
	defer setOutput(os.Stdout, "json", "")

	L().Info("structured", zap.String("donor_id", "donor-1"))

	var entry map[string]interface{}
	line := strings.TrimSpace(strings.Split(buf.String(), "\n")[0])
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, line)
	}
	if entry["service_name"] != "bloodsync-api" {
		t.Fatalf("service_name missing: %v", entry)
	}
	if entry["donor_id"] != "donor-1" {
		t.Fatalf("structured field missing: %v", entry)
	}
	if entry["msg"] != "structured" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
}
