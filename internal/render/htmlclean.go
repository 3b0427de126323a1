package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cosmetic attributes the editor sprinkles over exported markup. Stripped
// structurally rather than by substring replacement.
var strippedAttrs = map[string]bool{
	"dir":   true,
	"style": true,
	"class": true,
	"role":  true,
}

var headingDemotions = map[atom.Atom]string{
	atom.H1: "h2",
	atom.H2: "h3",
	atom.H3: "h4",
	atom.H4: "h5",
	atom.H5: "h6",
}

// emptiable tags are dropped entirely when they contain nothing but
// whitespace. Editors leave these behind as artifacts.
var emptiable = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.B: true, atom.Strong: true,
	atom.Span: true,
}

// CleanHTML normalizes a fragment of remote HTML in one tree pass: parse
// once, strip the attribute denylist, drop empty cosmetic elements, demote
// headings one level so a module's internal <h1> cannot collide with the
// document's own headings, collapse whitespace runs, serialize once.
// Malformed input is tolerated; the parser repairs what it can.
func CleanHTML(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "\r", "")
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return fragment
	}

	// Reparent the fragment under a scratch node so cleanNode can detach
	// top-level artifacts the same way it detaches nested ones.
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	var children []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		cleanNode(c)
	}

	var out strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&out, c)
	}
	return out.String()
}

// cleanNode transforms one node in place and recurses into children. It may
// detach the node from its parent, so callers iterate over a snapshot of the
// child list.
func cleanNode(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		n.Data = collapseSpace(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	// <br> never survives: the remote uses it as vertical padding and the
	// markdown converter handles paragraph breaks itself.
	if n.DataAtom == atom.Br {
		detach(n)
		return
	}

	filtered := n.Attr[:0]
	for _, a := range n.Attr {
		if !strippedAttrs[a.Key] {
			filtered = append(filtered, a)
		}
	}
	n.Attr = filtered

	if repl, ok := headingDemotions[n.DataAtom]; ok {
		n.Data = repl
		n.DataAtom = atom.Lookup([]byte(repl))
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		cleanNode(c)
	}

	if emptiable[n.DataAtom] && isBlank(n) {
		detach(n)
	}
}

func isBlank(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case html.ElementNode:
			if c.DataAtom == atom.Img || !isBlank(c) {
				return false
			}
		}
	}
	return true
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// collapseSpace folds runs of whitespace into single spaces, keeping a single
// leading/trailing space where one existed so words don't fuse across tags.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	collapsed := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		collapsed = " " + collapsed
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		collapsed = collapsed + " "
	}
	return collapsed
}
