// Package ui holds the console plumbing shared by the commands: output
// format selection, the semantic style registry and interactive
// confirmation.
//
// Styles are declared in the embedded styles.yaml with adaptive light and
// dark colors and looked up by semantic name:
//
//	ui.Style("Success").Render("deployed")
package ui
