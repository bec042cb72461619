package ui

import "strings"

// confirmDialog asks before deleting a service. A failed delete keeps the
// dialog open with the error.
type confirmDialog struct {
	name    string
	pending bool
	err     string
}

func (c confirmDialog) View(s Styles, spin string) string {
	var b strings.Builder
	b.WriteString("Delete " + s.Name.Render(c.name) + "?\n\n")
	switch {
	case c.pending:
		b.WriteString(spin + " deleting...")
	case c.err != "":
		b.WriteString(s.Error.Render(c.err))
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render("y retry  n cancel"))
	default:
		b.WriteString(s.Muted.Render("y delete  n cancel"))
	}
	return s.Dialog.Render(b.String())
}
