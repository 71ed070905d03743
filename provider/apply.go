package provider

import (
	"path/filepath"
	"strings"
)

// replaceSpan substitutes insert for in.Text[in.Anchor:in.Cursor].
func replaceSpan(in ApplyInput, insert string) (string, int) {
	anchor := in.Anchor
	cursor := in.Cursor
	if anchor < 0 {
		anchor = 0
	}
	if cursor > len(in.Text) {
		cursor = len(in.Text)
	}
	if anchor > cursor {
		anchor = cursor
	}
	text := in.Text[:anchor] + insert + in.Text[cursor:]
	return text, anchor + len(insert)
}

// insertApply is the default apply: replace the anchored span with the
// item's text plus an optional trailing space, move the cursor after it,
// and close the dropdown.
func insertApply(insert string, trailingSpace bool) ApplyFunc {
	if trailingSpace {
		insert += " "
	}
	return func(_ Action, in ApplyInput) ApplyResult {
		text, cursor := replaceSpan(in, insert)
		return ApplyResult{Text: text, Cursor: cursor, CloseDropdown: true}
	}
}

// callFormApply inserts "name param..." and asks the host to enter
// placeholder mode positioned at the first parameter.
func callFormApply(name string, params []string) ApplyFunc {
	return func(_ Action, in ApplyInput) ApplyResult {
		insert := name + " " + strings.Join(params, " ")
		text, _ := replaceSpan(in, insert)
		start := in.Anchor + len(name) + 1
		if in.Anchor < 0 {
			start = len(name) + 1
		}
		return ApplyResult{
			Text:          text,
			Cursor:        start,
			CloseDropdown: true,
			Effect: Effect{
				Kind:     EffectEnterPlaceholderMode,
				Params:   params,
				StartPos: start,
			},
		}
	}
}

// mediaExtensions mark files that attach instead of inlining their path.
var mediaExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".pdf": true, ".mp3": true, ".wav": true, ".mp4": true,
}

// isMediaFile reports whether the path names an attachable media file.
func isMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

// fileApply handles file and directory items.
//
// Directory under Drill: replace the span with "@dir/" and keep the
// dropdown open so the next keystroke browses into it.
// Directory or file under Select: insert the reference syntax and close.
// Media file under Select: insert a placeholder token and ask the host to
// attach the real path.
func fileApply(relPath string, isDir bool) ApplyFunc {
	return func(action Action, in ApplyInput) ApplyResult {
		if isDir && action == ActionDrill {
			text, cursor := replaceSpan(in, "@"+relPath)
			return ApplyResult{Text: text, Cursor: cursor, CloseDropdown: false}
		}

		if !isDir && isMediaFile(relPath) {
			token := "[" + filepath.Base(relPath) + "] "
			text, cursor := replaceSpan(in, token)
			return ApplyResult{
				Text:          text,
				Cursor:        cursor,
				CloseDropdown: true,
				Effect:        Effect{Kind: EffectAddAttachment, Path: relPath},
			}
		}

		text, cursor := replaceSpan(in, "@"+relPath+" ")
		return ApplyResult{Text: text, Cursor: cursor, CloseDropdown: true}
	}
}

// defaultRender builds the row spec from the item's own fields.
func defaultRender(label, detail string, typ ItemType, indices []int) RenderFunc {
	return func() RenderSpec {
		return RenderSpec{
			Label:        label,
			Detail:       detail,
			TypeName:     typ.String(),
			MatchIndices: indices,
		}
	}
}
