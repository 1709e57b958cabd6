package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevelFallback(t *testing.T) {
	Init("not-a-level")
	if log == nil {
		t.Fatal("log not initialized")
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %v", log.GetLevel())
	}

	Init("debug")
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug, got %v", log.GetLevel())
	}
}

func TestLoggerFunctions(t *testing.T) {
	Init("debug")
	// Avoid os.Exit on Fatal
	log.ExitFunc = func(int) {}

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	Debugf("%s", "debugf")
	Infof("%s", "infof")
	Warnf("%s", "warnf")
	Errorf("%s", "errorf")
	Fatal("fatal")
	Fatalf("%s", "fatalf")
}
