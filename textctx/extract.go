// Package textctx derives the per-keystroke completion context from the
// raw buffer and cursor.
package textctx

import "strings"

// boundaryChars end a word when scanning left from the cursor: whitespace,
// the bracket pairs, quote marks, comma and semicolon.
const boundaryChars = " \t\n\r()[]{}\"'`,;"

// Extract returns the word under construction before the cursor and the
// index of its first character. O(word length), no side effects.
func Extract(text string, cursor int) (word string, start int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	start = cursor
	for start > 0 && !strings.ContainsRune(boundaryChars, rune(text[start-1])) {
		start--
	}
	return text[start:cursor], start
}

// insideString reports whether the cursor sits inside an unterminated
// double-quoted string. Backslash escapes are honored.
func insideString(text string, cursor int) bool {
	inside := false
	for i := 0; i < cursor && i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			inside = !inside
		}
	}
	return inside
}

// enclosingHead returns the head symbol of the innermost unclosed paren
// form before the cursor, or "" when the cursor is at top level.
func enclosingHead(text string, cursor int) string {
	if cursor > len(text) {
		cursor = len(text)
	}

	depth := 0
	open := -1
	for i := cursor - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
		if open >= 0 {
			break
		}
	}
	if open < 0 {
		return ""
	}

	head := text[open+1:]
	if end := strings.IndexAny(head, boundaryChars); end >= 0 {
		head = head[:end]
	}
	return head
}
