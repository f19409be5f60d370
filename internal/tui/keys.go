package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings shared across screens. Screens only
// consult the bindings that make sense for them; bindings that collide
// with active text input are ignored while a field has focus.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Submit    key.Binding
	NextField key.Binding
	Back      key.Binding

	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	View    key.Binding
	Refresh key.Binding

	Comment key.Binding
	Status  key.Binding
	Assign  key.Binding

	Tickets   key.Binding
	Dashboard key.Binding
	Register  key.Binding
	Logout    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "subir"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "bajar"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "aceptar"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "siguiente campo"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "volver"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "nuevo ticket"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "editar"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "eliminar"),
	),
	View: key.NewBinding(
		key.WithKeys("enter", "v"),
		key.WithHelp("enter/v", "ver"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recargar"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comentar"),
	),
	Status: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "estado"),
	),
	Assign: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "asignar"),
	),
	Tickets: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "ver reportes"),
	),
	Dashboard: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "dashboard"),
	),
	Register: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "registro"),
	),
	Logout: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cerrar sesión"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "salir"),
	),
}
