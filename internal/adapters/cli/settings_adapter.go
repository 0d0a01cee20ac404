package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/primary"
)

// SettingsAdapter translates dictionary and preference commands to
// ShiftLogService calls.
type SettingsAdapter struct {
	service primary.ShiftLogService
	out     io.Writer
}

// NewSettingsAdapter creates a new SettingsAdapter with the given service.
func NewSettingsAdapter(service primary.ShiftLogService, out io.Writer) *SettingsAdapter {
	return &SettingsAdapter{
		service: service,
		out:     out,
	}
}

// ListDictionary prints one dictionary, or every dictionary when kind is empty.
func (a *SettingsAdapter) ListDictionary(ctx context.Context, kind string) error {
	kinds := []string{kind}
	if kind == "" {
		kinds = models.DictionaryKinds
	}
	for _, k := range kinds {
		values, err := a.service.GetDictionary(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (%d):\n", k, len(values))
		for _, v := range values {
			fmt.Fprintf(a.out, "  %s\n", v)
		}
	}
	return nil
}

// SetDictionary replaces one dictionary.
func (a *SettingsAdapter) SetDictionary(ctx context.Context, kind string, values []string) error {
	stored, err := a.service.SetDictionary(ctx, kind, values)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Dictionary %s now has %d entries", kind, len(stored)))
	return nil
}

// SetCompact toggles compact rendering.
func (a *SettingsAdapter) SetCompact(ctx context.Context, compact bool) error {
	if err := a.service.SetCompact(ctx, compact); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Compact mode %s", onOff(compact)))
	return nil
}

// SetStartScreen selects the first screen.
func (a *SettingsAdapter) SetStartScreen(ctx context.Context, screen string) error {
	if err := a.service.SetStartScreen(ctx, screen); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Start screen set to %s", screen))
	return nil
}

// SetField shows or hides one column.
func (a *SettingsAdapter) SetField(ctx context.Context, scope, field string, visible bool) error {
	err := a.service.SetFieldVisibility(ctx, primary.FieldVisibilityRequest{
		Scope:   scope,
		Field:   field,
		Visible: visible,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Column %s.%s %s", scope, field, onOff(visible)))
	return nil
}

// ShowPreferences prints the UI preferences.
func (a *SettingsAdapter) ShowPreferences(ctx context.Context) error {
	s, err := a.service.GetSettings(ctx)
	if err != nil {
		return err
	}
	ui := s.UI
	fmt.Fprintf(a.out, "Start screen: %s\n", ui.StartScreen)
	fmt.Fprintf(a.out, "Compact:      %s\n", onOff(ui.Compact))
	fmt.Fprintf(a.out, "Request:      num=%s type=%s kusp=%s addr=%s desc=%s t1=%s t2=%s t3=%s result=%s\n",
		onOff(ui.RequestFields.Num), onOff(ui.RequestFields.Type), onOff(ui.RequestFields.KUSP),
		onOff(ui.RequestFields.Addr), onOff(ui.RequestFields.Desc), onOff(ui.RequestFields.T1),
		onOff(ui.RequestFields.T2), onOff(ui.RequestFields.T3), onOff(ui.RequestFields.Result))
	fmt.Fprintf(a.out, "Delivered:    fio=%s time=%s reason=%s\n",
		onOff(ui.DeliveredFields.FIO), onOff(ui.DeliveredFields.Time), onOff(ui.DeliveredFields.Reason))
	fmt.Fprintf(a.out, "Assist:       service=%s note=%s start=%s end=%s delta=%s\n",
		onOff(ui.AssistFields.Service), onOff(ui.AssistFields.Note), onOff(ui.AssistFields.Start),
		onOff(ui.AssistFields.End), onOff(ui.AssistFields.Delta))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
