// Package ui provides semantic text formatting for spps output.
//
// Each formatter renders one kind of content. When colors are available
// the content is colorized; when NO_COLOR is set or the terminal cannot
// show colors, a text decoration is used instead:
//
//	ui.Code.Sprint("spps init")            // `spps init`
//	ui.Path.Sprint("~/.spps/settings")     // paths, undecorated
//	ui.Highlight.Sprint("encrypt")         // 'encrypt'
//	ui.Muted.Sprint("pointer")             // (pointer)
//	ui.Envelope.Sprint("{...}")            // encrypted values, undecorated
//
// Mark and Failure build the ✓ and ✗ status lines used by every command.
package ui
