package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/Steviegt6/TerraWeave/internal/patch"
)

func loaded(t *testing.T, m browser, msg tea.Msg) browser {
	t.Helper()
	next, _ := m.Update(msg)
	b, ok := next.(browser)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return b
}

func TestBrowserLoadsPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.tweave")
	records := sampleRecords(t)
	if err := patch.WriteFile(path, records); err != nil {
		t.Fatal(err)
	}

	m := NewBrowser(path)
	if !m.loading {
		t.Fatal("browser should start loading")
	}
	msg, ok := loadPatchCmd(path)().(patchLoadedMsg)
	if !ok {
		t.Fatal("load command returned the wrong message")
	}
	if msg.err != nil {
		t.Fatal(msg.err)
	}

	m = loaded(t, m, msg)
	if m.loading || m.err != nil {
		t.Fatalf("loading=%v err=%v", m.loading, m.err)
	}
	if got := len(m.records.Items()); got != len(records) {
		t.Errorf("got %d items, want %d", got, len(records))
	}
	if !strings.Contains(m.View(), "R: records") {
		t.Error("summary menu should offer the record list")
	}

	m = loaded(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
}

func TestBrowserLoadError(t *testing.T) {
	m := NewBrowser(filepath.Join(t.TempDir(), "missing.tweave"))
	m = loaded(t, m, patchLoadedMsg{err: errors.New("boom")})
	if m.err == nil {
		t.Fatal("expected the load error to be kept")
	}
	if len(m.records.Items()) != 0 {
		t.Error("no records expected")
	}
	if !strings.Contains(m.View(), "Q: quit") {
		t.Error("menu missing")
	}
}

func TestRecordItem(t *testing.T) {
	rec := sampleRecords(t)[1]
	item := recordItem{index: 1, record: rec, filterTerm: "NestedTypeInject Terraria.Main/Scene"}
	if !strings.Contains(item.Title(), "Terraria.Main/Scene") {
		t.Errorf("Title = %q", item.Title())
	}
	if kindColor(patch.KindMethodModify) == kindColor(patch.KindTypeInject) {
		t.Error("kinds should be told apart by color")
	}
}
