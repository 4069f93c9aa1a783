package inv

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dhruv-4604/inventory-cli/internal/listview"
)

// recordForm edits one record of the open resource. An empty id means create.
type recordForm struct {
	res        *Resource
	id         string
	inputs     []textinput.Model
	focusIndex int
	// initial holds the prefilled values; edits send only what differs.
	initial map[string]string
}

// openForm switches to the create/edit form for the open list's resource.
func (m *Model) openForm(id string, rec listview.Record) {
	res := m.page.res
	if res == nil {
		return
	}
	values := FormValues(res, rec)

	inputs := make([]textinput.Model, len(res.Fields))
	for i, f := range res.Fields {
		in := textinput.New()
		in.Placeholder = f.Label
		if !f.Required {
			in.Placeholder += " (optional)"
		}
		in.SetValue(values[f.Key])
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	m.form = recordForm{res: res, id: id, inputs: inputs, initial: values}
	m.prevView = m.view
	m.view = ViewForm
	if id == "" {
		m.breadcrumbs = []string{"Main", res.Title, "New"}
	} else {
		m.breadcrumbs = []string{"Main", res.Title, id, "Edit"}
	}
}

// updateForm handles form input updates
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form
	switch msg.String() {
	case "tab", "down":
		f.focusIndex++
		if f.focusIndex >= len(f.inputs) {
			f.focusIndex = 0
		}
		f.updateFocus()
		return m, nil

	case "shift+tab", "up":
		f.focusIndex--
		if f.focusIndex < 0 {
			f.focusIndex = len(f.inputs) - 1
		}
		f.updateFocus()
		return m, nil

	case "enter":
		m.loading = true
		return m, m.submitForm()

	case "esc":
		m.view = m.prevView
		m.breadcrumbs = []string{"Main", f.res.Title}
		if m.view == ViewDetail {
			m.breadcrumbs = append(m.breadcrumbs, m.selectedID)
		}
		return m, nil
	}

	if f.focusIndex < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focusIndex], cmd = f.inputs[f.focusIndex].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (f *recordForm) updateFocus() {
	for i := range f.inputs {
		if i == f.focusIndex {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// values returns every input when creating and only the changed inputs when
// editing, so fields the form never showed are left alone on the backend.
func (f recordForm) values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for i, field := range f.res.Fields {
		v := f.inputs[i].Value()
		if f.id != "" && v == f.initial[field.Key] {
			continue
		}
		values[field.Key] = v
	}
	return values
}

// submitForm validates the form and creates or updates the record.
func (m Model) submitForm() tea.Cmd {
	f := m.form
	values := f.values()
	return func() tea.Msg {
		payload, err := BuildPayload(f.res, values, f.id != "")
		if err != nil {
			return formSubmittedMsg{false, err.Error()}
		}

		ctx, cancel := m.requestContext()
		defer cancel()
		if f.id == "" {
			if _, err := m.client.Create(ctx, f.res, payload); err != nil {
				return formSubmittedMsg{false, err.Error()}
			}
			return formSubmittedMsg{true, fmt.Sprintf("%s created", f.res.Singular)}
		}
		if _, err := m.client.Update(ctx, f.res, f.id, payload); err != nil {
			return formSubmittedMsg{false, err.Error()}
		}
		return formSubmittedMsg{true, fmt.Sprintf("%s updated: %s", f.res.Singular, f.id)}
	}
}

func (m Model) renderForm() string {
	f := m.form
	if f.res == nil {
		return ""
	}
	var b strings.Builder
	title := "Create " + f.res.Singular
	if f.id != "" {
		title = fmt.Sprintf("Edit %s %s", f.res.Singular, f.id)
	}
	b.WriteString(titleStyle.Render(" "+title+" ") + "\n\n")

	for i, input := range f.inputs {
		label := f.res.Fields[i].Label + ":"
		if i == f.focusIndex {
			label = selectedStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("  %s\n", label))
		b.WriteString(fmt.Sprintf("  %s\n\n", input.View()))
	}
	if m.loading {
		b.WriteString(fmt.Sprintf("  %s Saving...", m.spinner.View()))
	}

	return boxStyle.Render(b.String())
}
