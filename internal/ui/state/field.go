package state

import "unicode"

// Field is an editable single-line text buffer with a rune cursor.
// When Selected is set the next insertion replaces the whole text.
type Field struct {
	Text     string
	Cursor   int
	Selected bool
}

// Set replaces the text and places the cursor, clamping it to the text.
func (f *Field) Set(text string, cursor int) {
	f.Text = text
	f.Selected = false
	f.Cursor = clampCursor(cursor, len([]rune(text)))
}

// SelectAll marks the whole text as selected and moves the cursor to the end.
func (f *Field) SelectAll() {
	f.Cursor = len([]rune(f.Text))
	f.Selected = f.Text != ""
}

// CursorPos returns the rune offset of the cursor.
func (f *Field) CursorPos() int {
	return clampCursor(f.Cursor, len([]rune(f.Text)))
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}

// Insert inserts text at the cursor, replacing a selection.
func (f *Field) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	if f.Selected {
		f.Set(text, len(insert))
		return true
	}
	runes := []rune(f.Text)
	pos := f.CursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	f.Set(string(updated), pos+len(insert))
	return true
}

// DeleteBackward deletes the rune before the cursor, or the selection.
func (f *Field) DeleteBackward() bool {
	if f.Selected {
		f.Set("", 0)
		return true
	}
	runes := []rune(f.Text)
	pos := f.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	f.Set(string(updated), pos-1)
	return true
}

// DeleteForward deletes the rune under the cursor, or the selection.
func (f *Field) DeleteForward() bool {
	if f.Selected {
		f.Set("", 0)
		return true
	}
	runes := []rune(f.Text)
	pos := f.CursorPos()
	if pos >= len(runes) {
		return false
	}
	updated := append(runes[:pos], runes[pos+1:]...)
	f.Set(string(updated), pos)
	return true
}

// DeleteWordBackward deletes the word preceding the cursor.
func (f *Field) DeleteWordBackward() bool {
	if f.Selected {
		f.Set("", 0)
		return true
	}
	runes := []rune(f.Text)
	pos := f.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	updated := append(runes[:i], runes[pos:]...)
	f.Set(string(updated), i)
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

// MoveStart moves the cursor to the start.
func (f *Field) MoveStart() bool {
	f.Selected = false
	if f.CursorPos() == 0 {
		return false
	}
	f.Cursor = 0
	return true
}

// MoveEnd moves the cursor to the end.
func (f *Field) MoveEnd() bool {
	f.Selected = false
	end := len([]rune(f.Text))
	if f.CursorPos() == end {
		return false
	}
	f.Cursor = end
	return true
}

// MoveWordBackward moves the cursor one word backward.
func (f *Field) MoveWordBackward() bool {
	f.Selected = false
	runes := []rune(f.Text)
	pos := f.CursorPos()
	if pos == 0 {
		return false
	}
	i := wordStart(runes, pos)
	if i == pos {
		return false
	}
	f.Cursor = i
	return true
}

// MoveWordForward moves the cursor one word forward.
func (f *Field) MoveWordForward() bool {
	f.Selected = false
	runes := []rune(f.Text)
	pos := f.CursorPos()
	if pos >= len(runes) {
		return false
	}
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	f.Cursor = i
	return true
}

// MoveRuneBackward moves the cursor one rune backward.
func (f *Field) MoveRuneBackward() bool {
	f.Selected = false
	if f.CursorPos() == 0 {
		return false
	}
	f.Cursor = f.CursorPos() - 1
	return true
}

// MoveRuneForward moves the cursor one rune forward.
func (f *Field) MoveRuneForward() bool {
	f.Selected = false
	pos := f.CursorPos()
	if pos >= len([]rune(f.Text)) {
		return false
	}
	f.Cursor = pos + 1
	return true
}
