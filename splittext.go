// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"
	"unicode/utf8"
)

// TextSplit wraps text into lines of at most width characters. Runs of
// whitespace collapse to a single space and words longer than width are
// broken, filling what is left of the current line first.
func TextSplit(text string, width int) (lines []string) {
	width = max(width, 1)

	var line strings.Builder
	lenLine := 0

	flush := func() {
		if lenLine > 0 {
			lines = append(lines, line.String())
		}
		line.Reset()
		lenLine = 0
	}

	for _, word := range strings.Fields(text) {
		lenWord := utf8.RuneCountInString(word)

		if lenLine > 0 && lenLine+1+lenWord <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lenLine += 1 + lenWord
			continue
		}

		if lenWord <= width {
			flush()
			line.WriteString(word)
			lenLine = lenWord
			continue
		}

		runes := []rune(word)
		if lenLine > 0 {
			if spaceLeft := width - lenLine - 1; spaceLeft > 0 {
				line.WriteByte(' ')
				line.WriteString(string(runes[:spaceLeft]))
				runes = runes[spaceLeft:]
			}
			lenLine = width
			flush()
		}

		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		line.WriteString(string(runes))
		lenLine = len(runes)
	}
	flush()

	return lines
}
