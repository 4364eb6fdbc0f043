// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

// TextStrategy extracts one candidate value from a document. An empty
// string means the strategy found nothing.
type TextStrategy func(doc *goquery.Document) string

// FirstText runs strategies in order and returns the first non-empty
// result.
func FirstText(doc *goquery.Document, strategies ...TextStrategy) string {
	for _, strategy := range strategies {
		if text := strategy(doc); text != "" {
			return text
		}
	}
	return ""
}

// SelectorText returns the cleaned text of the first element matching
// selector.
func SelectorText(selector string) TextStrategy {
	return func(doc *goquery.Document) string {
		return CleanText(doc.Find(selector).First().Text())
	}
}

// AttrText returns the given attribute of the first element matching
// selector.
func AttrText(selector, attr string) TextStrategy {
	return func(doc *goquery.Document) string {
		value, _ := doc.Find(selector).First().Attr(attr)
		return strings.TrimSpace(value)
	}
}

// ParagraphsText joins the text of up to max elements matching selector
// with single spaces.
func ParagraphsText(selector string, max int) TextStrategy {
	return func(doc *goquery.Document) string {
		var parts []string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= max {
				return false
			}
			if text := CleanText(s.Text()); text != "" {
				parts = append(parts, text)
			}
			return true
		})
		return strings.Join(parts, " ")
	}
}

// SectionText finds a heading whose text matches one of the given labels
// (case-insensitive, trailing colon ignored) and collects the paragraphs
// and list items of the siblings that follow it, stopping at the next
// heading. List items are bulleted.
func SectionText(headings ...string) TextStrategy {
	targets := make(map[string]bool, len(headings))
	for _, h := range headings {
		targets[strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ":")] = true
	}

	return func(doc *goquery.Document) string {
		var result string
		doc.Find("h1, h2, h3, h4, h5").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			label := strings.TrimSuffix(strings.ToLower(CleanText(h.Text())), ":")
			if !targets[label] {
				return true
			}

			var parts []string
			for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
				if isHeading(goquery.NodeName(sib)) {
					break
				}
				sibParts := len(parts)
				sib.Find("p").Each(func(_ int, p *goquery.Selection) {
					if text := CleanText(p.Text()); text != "" {
						parts = append(parts, text)
					}
				})
				sib.Find("li").Each(func(_ int, li *goquery.Selection) {
					if text := CleanText(li.Text()); text != "" {
						parts = append(parts, "• "+text)
					}
				})
				if len(parts) == sibParts {
					if text := CleanText(sib.Text()); text != "" {
						parts = append(parts, text)
					}
				}
			}

			if text := strings.TrimSpace(strings.Join(parts, "\n")); text != "" {
				result = text
				return false
			}
			return true
		})
		return result
	}
}

// MergeTags normalizes and merges tag sets into one sorted, deduplicated
// set.
func MergeTags(sets ...[]string) []string {
	var all []string
	for _, set := range sets {
		all = append(all, set...)
	}
	return core.NormalizeTags(all)
}

// CleanText collapses all whitespace runs in s to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isHeading(nodeName string) bool {
	switch nodeName {
	case "h1", "h2", "h3", "h4", "h5":
		return true
	}
	return false
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
