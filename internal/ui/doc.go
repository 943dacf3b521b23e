// Package ui is the floorctl operator console, built with Bubble Tea.
//
// Core pieces:
//   - Console: hosts one viewstack.Stack whose root is the category list
//   - Screen: the Init/Update/View unit carried as each view's Content
//   - Import wizard: import prompt, then one preview per file (NewPreviewView)
//   - ConfirmModal: used on the stack for single deletes and as an overlay
//     for delete-all
//   - KeybindRegistry/KeyHandler: SPC leader bindings filtered by AppMode
package ui
