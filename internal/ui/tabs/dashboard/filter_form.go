package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/j-veylop/llm-dashboard-tui/internal/filter"
	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// FilterForm edits the pending filter. Submitting writes the selection to
// the filter controller; cancelling leaves it untouched.
type FilterForm struct {
	Completed bool
	Cancelled bool
	Err       error

	form   *huh.Form
	ctrl   *filter.Controller
	preset models.Preset
	start  string
	end    string
	model  string
}

// NewFilterForm creates a form prefilled with the controller's pending filter.
func NewFilterForm(ctrl *filter.Controller) *FilterForm {
	pending := ctrl.Pending()
	ff := &FilterForm{
		ctrl:   ctrl,
		preset: ctrl.Preset(),
		start:  models.FormatDate(pending.Range.Start),
		end:    models.FormatDate(pending.Range.End),
		model:  pending.Model.String(),
	}

	presets := []huh.Option[models.Preset]{huh.NewOption(models.PresetCustom.String(), models.PresetCustom)}
	for _, p := range models.Presets() {
		presets = append(presets, huh.NewOption(p.String(), p))
	}

	modelOptions := huh.NewOptions(ctrl.Models()...)

	bounds := ctrl.Bounds()
	boundsHint := "Any date"
	if !bounds.IsZero() {
		boundsHint = fmt.Sprintf("Data available %s to %s",
			models.FormatDate(bounds.Min), models.FormatDate(bounds.Max))
	}

	ff.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.Preset]().
				Title("Date range").
				Description("Pick a preset or Custom to use the dates below").
				Options(presets...).
				Value(&ff.preset),
			huh.NewInput().
				Title("Start date").
				Description(boundsHint).
				Placeholder(models.DateLayout).
				Value(&ff.start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date").
				Placeholder(models.DateLayout).
				Value(&ff.end).
				Validate(ff.validateEnd),
			huh.NewSelect[string]().
				Title("Model").
				Options(modelOptions...).
				Value(&ff.model),
		),
	).WithShowHelp(true)

	return ff
}

func validateDate(s string) error {
	_, err := models.ParseDate(s)
	return err
}

func (ff *FilterForm) validateEnd(s string) error {
	end, err := models.ParseDate(s)
	if err != nil {
		return err
	}
	if start, err := models.ParseDate(ff.start); err == nil && start.After(end) {
		return fmt.Errorf("end date must not be before start date")
	}
	return nil
}

// Init initializes the underlying form.
func (ff *FilterForm) Init() tea.Cmd {
	return ff.form.Init()
}

// Update forwards msg to the form and commits the selection on completion.
func (ff *FilterForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		ff.Cancelled = true
		ff.Completed = true
		return nil
	}

	form, cmd := ff.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ff.form = f
	}

	switch ff.form.State {
	case huh.StateCompleted:
		ff.Completed = true
		ff.Err = ff.commit()
		return nil
	case huh.StateAborted:
		ff.Cancelled = true
		ff.Completed = true
		return nil
	}
	return cmd
}

func (ff *FilterForm) commit() error {
	if ff.preset != models.PresetCustom {
		if err := ff.ctrl.SetPreset(ff.preset); err != nil {
			return err
		}
	} else {
		start, err := models.ParseDate(ff.start)
		if err != nil {
			return err
		}
		end, err := models.ParseDate(ff.end)
		if err != nil {
			return err
		}
		if err := ff.ctrl.SetRange(models.NewDateRange(start, end)); err != nil {
			return err
		}
	}
	if err := ff.ctrl.SetModel(models.ModelFilter(ff.model)); err != nil {
		return err
	}
	logger.Debug("Filter form submitted", "pending", ff.ctrl.Pending().String())
	return nil
}

// View renders the form.
func (ff *FilterForm) View() string {
	return ff.form.View()
}
