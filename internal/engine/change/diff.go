package change

import (
	"unicode/utf8"

	diff "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/docstate/internal/engine/text"
)

// Diff returns a change set that turns a into b.
// Edits are cleaned up semantically so replacements follow word and line
// boundaries rather than scattered single characters.
func Diff(a, b *text.Text) ChangeSet {
	if a.Eq(b) {
		return Empty(a.Len())
	}
	dmp := diff.New()
	as, bs := a.String(), b.String()
	var diffs []diff.Diff
	if utf8.ValidString(as) && utf8.ValidString(bs) {
		diffs = dmp.DiffCleanupSemantic(dmp.DiffMain(as, bs, false))
	} else {
		// Invalid UTF-8 would decode to U+FFFD and change lengths, so
		// diff one rune per byte instead.
		diffs = dmp.DiffCleanupSemantic(dmp.DiffMainRunes(byteRunes(as), byteRunes(bs), false))
		for i := range diffs {
			diffs[i].Text = runeBytes(diffs[i].Text)
		}
	}

	var sections []int
	var inserted []*text.Text
	replace := func(deleted int, ins string) {
		content := text.Empty
		if ins != "" {
			content = text.FromString(ins, "\n")
		}
		sections = addSection(sections, deleted, content.Len(), false)
		inserted = addInsert(inserted, sections, content)
	}

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diff.DiffEqual:
			sections = addSection(sections, len(d.Text), -1, false)
		case diff.DiffDelete:
			ins := ""
			if i+1 < len(diffs) && diffs[i+1].Type == diff.DiffInsert {
				ins = diffs[i+1].Text
				i++
			}
			replace(len(d.Text), ins)
		case diff.DiffInsert:
			deleted := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diff.DiffDelete {
				deleted = len(diffs[i+1].Text)
				i++
			}
			replace(deleted, d.Text)
		}
	}
	return ChangeSet{sections: sections, inserted: inserted}
}

func byteRunes(s string) []rune {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return runes
}

func runeBytes(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}
