// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package connections

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

// =============================================================================
// REGISTRATION FORM
// =============================================================================

// form field indexes, in tab order.
const (
	fieldNickname = iota
	fieldAccessKey
	fieldSecretKey
	fieldRegion
	fieldCount
)

// registrationForm is the transient credential entry form. It exists only
// while open; cancel discards the draft wholesale.
type registrationForm struct {
	provider model.Provider
	inputs   [fieldCount]textinput.Model
	focus    int
}

// newRegistrationForm creates a form pre-filled with draft defaults.
func newRegistrationForm() *registrationForm {
	draft := model.NewConnectionDraft()

	f := &registrationForm{provider: draft.Provider}

	nickname := textinput.New()
	nickname.Prompt = "nickname>   "
	nickname.Placeholder = "prod-readonly"
	nickname.CharLimit = 64
	nickname.Focus()

	accessKey := textinput.New()
	accessKey.Prompt = "access key> "
	accessKey.Placeholder = "AKIA..."
	accessKey.CharLimit = 128

	// SECURITY: secret material is masked on screen and never logged.
	secretKey := textinput.New()
	secretKey.Prompt = "secret key> "
	secretKey.EchoMode = textinput.EchoPassword
	secretKey.EchoCharacter = '*'
	secretKey.CharLimit = 128

	region := textinput.New()
	region.Prompt = "region>     "
	region.SetValue(draft.Region)
	region.CharLimit = 32

	f.inputs[fieldNickname] = nickname
	f.inputs[fieldAccessKey] = accessKey
	f.inputs[fieldSecretKey] = secretKey
	f.inputs[fieldRegion] = region
	return f
}

// Draft snapshots the current form values.
func (f *registrationForm) Draft() model.ConnectionDraft {
	return model.ConnectionDraft{
		Provider:  f.provider,
		Nickname:  strings.TrimSpace(f.inputs[fieldNickname].Value()),
		AccessKey: strings.TrimSpace(f.inputs[fieldAccessKey].Value()),
		SecretKey: strings.TrimSpace(f.inputs[fieldSecretKey].Value()),
		Region:    strings.TrimSpace(f.inputs[fieldRegion].Value()),
	}
}

// Complete reports whether every required field is filled.
func (f *registrationForm) Complete() bool {
	d := f.Draft()
	return d.Nickname != "" && d.AccessKey != "" && d.SecretKey != "" && d.Region != ""
}

// CycleProvider advances the provider selector.
func (f *registrationForm) CycleProvider() {
	f.provider = f.provider.Next()
}

// NextField moves focus forward, wrapping.
func (f *registrationForm) NextField() {
	f.setFocus((f.focus + 1) % fieldCount)
}

// PrevField moves focus backward, wrapping.
func (f *registrationForm) PrevField() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *registrationForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// Update forwards a message to the focused input.
func (f *registrationForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders the form.
func (f *registrationForm) View(theme *styles.Theme, width int) string {
	var sections []string

	sections = append(sections, theme.PanelTitle.Render("Register Credential"))
	sections = append(sections,
		theme.FilterBadge.Render("provider: "+f.provider.DisplayName())+
			theme.Help.Render("  (^P to change)"))

	for i := range f.inputs {
		sections = append(sections, f.inputs[i].View())
	}

	sections = append(sections, theme.Help.Render("tab next field  enter submit  esc cancel"))

	return theme.Panel.
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
