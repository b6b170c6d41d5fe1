package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

// TestLoggerInitialization tests that logger can be initialized with different log levels
func TestLoggerInitialization(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{
			name:  "Valid DEBUG level",
			level: "DEBUG",
			want:  logrus.DebugLevel,
		},
		{
			name:  "Valid INFO level",
			level: "INFO",
			want:  logrus.InfoLevel,
		},
		{
			name:  "Valid WARN level",
			level: "WARN",
			want:  logrus.WarnLevel,
		},
		{
			name:  "Valid ERROR level",
			level: "ERROR",
			want:  logrus.ErrorLevel,
		},
		{
			name:  "Invalid level defaults to INFO",
			level: "INVALID",
			want:  logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level)
			if GetLogger().Level != tt.want {
				t.Errorf("Expected level %v, got %v", tt.want, GetLogger().Level)
			}
		})
	}
}

// TestGetLoggerWithoutInit tests that the logger self-initializes
func TestGetLoggerWithoutInit(t *testing.T) {
	log = nil
	if GetLogger() == nil {
		t.Fatal("Expected GetLogger to initialize the logger")
	}
	if GetLogger().Level != logrus.InfoLevel {
		t.Errorf("Expected default level INFO, got %v", GetLogger().Level)
	}
}

// TestWithFields tests that field entries carry their fields
func TestWithFields(t *testing.T) {
	Init("DEBUG")

	entry := WithFields(logrus.Fields{
		"server_id": "srv-1",
		"status":    "creating",
	})
	if entry.Data["server_id"] != "srv-1" {
		t.Errorf("Expected server_id field to be set, got %v", entry.Data["server_id"])
	}

	entry = WithField("table", "models")
	if entry.Data["table"] != "models" {
		t.Errorf("Expected table field to be set, got %v", entry.Data["table"])
	}
}
