// Package plantext converts a loosely-structured free-text training plan into
// nested list markup for display. Generated plans interleave numbered steps
// ("1. ..."), hyphen bullets ("- ...") and plain paragraphs with no consistent
// formatting; the transform wraps the whole content in one unordered list,
// turns runs of numbered lines into ordered sub-lists inside the current item,
// and makes hyphen lines sibling unordered items.
//
// This is a display convenience, not a Markdown parser: it always produces
// some output, and it performs no HTML escaping — plans legitimately contain
// markup (the generator emits schedule tables), so the source text passes
// through verbatim.
package plantext

import (
	"regexp"
	"strings"
)

var (
	orderedMarker   = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	unorderedMarker = regexp.MustCompile(`^\s*-\s+(.*)$`)
)

// segment is one run of content inside an unordered item: either prose lines
// or a nested ordered list. Exactly one of the two fields is used.
type segment struct {
	prose   []string
	ordered []string
}

// item is one unordered list item.
type item struct {
	segments []*segment
}

func (it *item) empty() bool {
	for _, seg := range it.segments {
		if seg.ordered != nil {
			return false
		}
		if strings.Join(seg.prose, "\n") != "" {
			return false
		}
	}
	return true
}

func (it *item) appendProse(line string) {
	if n := len(it.segments); n > 0 && it.segments[n-1].ordered == nil {
		last := it.segments[n-1]
		last.prose = append(last.prose, line)
		return
	}
	it.segments = append(it.segments, &segment{prose: []string{line}})
}

// Render transforms plan text into nested-list markup. It is pure, never
// fails, and returns the empty-list shell "<ul></ul>" for empty input.
func Render(text string) string {
	return serialize(parse(text))
}

// parse classifies each line and folds it into list structure. The first item
// starts empty so that content before any marker becomes the leading bullet.
func parse(text string) []*item {
	items := []*item{{}}
	cur := items[0]
	inOrdered := false

	for _, line := range strings.Split(text, "\n") {
		if m := orderedMarker.FindStringSubmatch(line); m != nil {
			if !inOrdered {
				cur.segments = append(cur.segments, &segment{ordered: []string{}})
				inOrdered = true
			}
			seg := cur.segments[len(cur.segments)-1]
			seg.ordered = append(seg.ordered, m[1])
			continue
		}
		if m := unorderedMarker.FindStringSubmatch(line); m != nil {
			cur = &item{}
			cur.appendProse(m[1])
			items = append(items, cur)
			inOrdered = false
			continue
		}
		if inOrdered {
			// Unmarked line inside a numbered run continues the current entry.
			seg := cur.segments[len(cur.segments)-1]
			seg.ordered[len(seg.ordered)-1] += "\n" + line
			continue
		}
		cur.appendProse(line)
	}
	return items
}

func serialize(items []*item) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for i, it := range items {
		// A leading item with no content would render as an empty bullet;
		// it is unwrapped instead.
		if i == 0 && it.empty() {
			continue
		}
		b.WriteString("<li>")
		for _, seg := range it.segments {
			if seg.ordered != nil {
				b.WriteString("<ol>")
				for _, entry := range seg.ordered {
					b.WriteString("<li>")
					b.WriteString(entry)
					b.WriteString("</li>")
				}
				b.WriteString("</ol>")
				continue
			}
			b.WriteString(strings.Join(seg.prose, "\n"))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
