package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewHandler(&buf, false))
	lg.Debug("hidden")
	lg.Info("Patch written", "records", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written without debug: %q", out)
	}
	if !strings.Contains(out, "records=3") {
		t.Errorf("unexpected output %q", out)
	}

	buf.Reset()
	slog.New(NewHandler(&buf, true)).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record dropped with debug: %q", buf.String())
	}
}

func TestRecoverPanic(t *testing.T) {
	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	if !cleaned {
		t.Error("cleanup did not run")
	}

	cleaned = false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
	}()
	if cleaned {
		t.Error("cleanup ran without a panic")
	}
}
