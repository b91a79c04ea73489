// Package extractor parses XML documents and pulls normalized text content
// out of a configurable set of elements.
package extractor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrEmptyDocument is returned for empty or whitespace-only input.
var ErrEmptyDocument = errors.New("xml content is empty")

// SemIDAttr is stamped on every matched element of the working copy, numbered
// from 1 in document order, so groups can later be traced back to their
// source elements.
const SemIDAttr = "cms:semid"

// BuildWorkingCopy parses xmlContent and annotates every element matched by
// elementNames (space-separated local names) with a SemIDAttr attribute.
// Malformed XML surfaces as a parse error here, before any session exists.
func BuildWorkingCopy(xmlContent string, elementNames string) (*etree.Document, error) {
	if strings.TrimSpace(xmlContent) == "" {
		return nil, ErrEmptyDocument
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, ErrEmptyDocument
	}

	for i, el := range matchElements(doc, elementNames) {
		el.CreateAttr(SemIDAttr, strconv.Itoa(i+1))
	}

	return doc, nil
}

// ExtractTexts returns the text content of every element matched by
// elementNames, in document order. Text is the full recursive content of the
// element with runs of whitespace collapsed to single spaces; elements whose
// normalized text is empty are skipped.
func ExtractTexts(doc *etree.Document, elementNames string) []string {
	texts := make([]string, 0)
	for _, el := range matchElements(doc, elementNames) {
		text := normalizeSpace(textContent(el))
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// matchElements walks the document in order and collects elements whose tag
// matches one of the space-separated names. A matched element nested inside
// another matched element is collected independently.
func matchElements(doc *etree.Document, elementNames string) []*etree.Element {
	names := make(map[string]bool)
	for _, name := range strings.Fields(elementNames) {
		names[name] = true
	}

	var matched []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if names[el.Tag] {
			matched = append(matched, el)
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	if root := doc.Root(); root != nil {
		walk(root)
	}
	return matched
}

// textContent concatenates all character data beneath el, depth first.
func textContent(el *etree.Element) string {
	var sb strings.Builder
	for _, child := range el.Child {
		switch node := child.(type) {
		case *etree.CharData:
			sb.WriteString(node.Data)
		case *etree.Element:
			sb.WriteString(textContent(node))
		}
	}
	return sb.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
