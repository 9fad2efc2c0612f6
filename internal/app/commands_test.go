package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/services"
)

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(7 * time.Second)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Error", cmds.NotifyError, NotificationError},
		{"Warning", notifyWarningCmd, NotificationWarning},
		{"Info", notifyInfoCmd, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := tt.fn("hello")().(AddNotificationMsg)
			if !ok {
				t.Fatal("expected AddNotificationMsg")
			}
			if msg.Type != tt.want || msg.Message != "hello" {
				t.Errorf("got %+v", msg)
			}
		})
	}

	if msg := cmds.NotifyError("x")().(AddNotificationMsg); msg.Duration != 7*time.Second {
		t.Errorf("error duration = %v, want the configured 7s", msg.Duration)
	}
	if NewCommands(0).errorDuration != LongNotificationDuration {
		t.Error("non-positive durations should fall back to LongNotificationDuration")
	}
}

func TestCommands_Requests(t *testing.T) {
	cmds := NewCommands(0)

	if _, ok := cmds.ApplyFilter()().(ApplyFilterMsg); !ok {
		t.Error("ApplyFilter should emit ApplyFilterMsg")
	}
	if _, ok := cmds.Reload()().(ReloadMsg); !ok {
		t.Error("Reload should emit ReloadMsg")
	}
	if _, ok := cmds.RefreshDebugInfo()().(RefreshDebugInfoMsg); !ok {
		t.Error("RefreshDebugInfo should emit RefreshDebugInfoMsg")
	}
}

func TestLoadCommands(t *testing.T) {
	src := newFakeSource()
	f := testFilter("all")

	msg := loadUsageCmd(context.Background(), src, 4, f)().(UsageLoadedMsg)
	if msg.Seq != 4 || !msg.Filter.Equal(f) || msg.Err != nil {
		t.Errorf("UsageLoadedMsg = %+v", msg)
	}

	hc := loadHighCostCmd(context.Background(), src, 4, f)().(HighCostLoadedMsg)
	if hc.Seq != 4 || len(hc.Records) != 1 {
		t.Errorf("HighCostLoadedMsg = %+v", hc)
	}

	dbg := loadDebugInfoCmd(src)().(DebugInfoLoadedMsg)
	if dbg.Info == nil || dbg.Err != nil {
		t.Errorf("DebugInfoLoadedMsg = %+v", dbg)
	}

	src.debugErr = errors.New("boom")
	dbg = loadDebugInfoCmd(src)().(DebugInfoLoadedMsg)
	if dbg.Info != nil || dbg.Err == nil {
		t.Errorf("DebugInfoLoadedMsg on error = %+v", dbg)
	}
}

func TestInitFilterCmd(t *testing.T) {
	ctrl := filter.New()
	msg := initFilterCmd(ctrl, newFakeSource())().(FilterInitializedMsg)
	if msg.Err != nil {
		t.Errorf("FilterInitializedMsg.Err = %v", msg.Err)
	}
	if ctrl.State() != filter.Ready {
		t.Error("controller should be ready")
	}
}

func TestWaitForServiceEventCmd_Closed(t *testing.T) {
	ch := make(chan services.ServiceEvent)
	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}
