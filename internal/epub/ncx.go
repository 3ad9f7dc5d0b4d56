package epub

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// ParseNCX parses a legacy NCX navigation document into an ordered
// NavPoint tree. Hrefs are kept raw, exactly as found in the source;
// callers resolve them through ResolveReference.
//
// Top-level navPoint nodes are collected along with their immediate
// children as depth-1 entries; deeper nesting is ignored here because
// the content loader expands only one level. The top-level list is
// sorted by the explicit playOrder attribute, ascending. Nodes without
// a playOrder sort as 0, with document order as a stable tie-break.
//
// The element walk matches on local names only, so namespace-prefixed
// NCX documents parse the same as plain ones.
func ParseNCX(data []byte) ([]NavPoint, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse NCX XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	navMap := findChildElement(root, "navMap")
	if navMap == nil {
		return nil, nil
	}

	var points []NavPoint
	for i, el := range childElements(navMap, "navPoint") {
		np := parseNavPointElement(el, i, 0)
		for j, childEl := range childElements(el, "navPoint") {
			np.Children = append(np.Children, parseNavPointElement(childEl, j, 1))
		}
		points = append(points, np)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Order < points[j].Order
	})

	return points, nil
}

// parseNavPointElement extracts one navigation point from a navPoint element.
func parseNavPointElement(el *etree.Element, index, level int) NavPoint {
	np := NavPoint{
		ID:    el.SelectAttrValue("id", ""),
		Level: level,
	}
	if np.ID == "" {
		np.ID = fmt.Sprintf("navpoint-%d-%d", level, index+1)
	}

	if order := el.SelectAttrValue("playOrder", ""); order != "" {
		if n, err := strconv.Atoi(order); err == nil {
			np.Order = n
		}
	}

	if label := findChildElement(el, "navLabel"); label != nil {
		if text := findChildElement(label, "text"); text != nil {
			np.Title = trimText(text.Text())
		}
	}

	if content := findChildElement(el, "content"); content != nil {
		np.Href = content.SelectAttrValue("src", "")
	}

	return np
}

// findChildElement returns the first immediate child with the given
// local name, ignoring namespace prefixes.
func findChildElement(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			return child
		}
	}
	return nil
}

// childElements returns all immediate children with the given local name.
func childElements(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			out = append(out, child)
		}
	}
	return out
}
