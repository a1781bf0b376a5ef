package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// Prepare returns the HTML to load into the rendering session.
//
// Rewrites:
//   - head <link rel="stylesheet"> with a local href: removed
//   - head <script src> with a local src: removed
//   - missing <base>: <base href="file:///<source dir>/"> added as the first head child
//
// Leaves untouched:
//   - remote stylesheets and scripts (loaded by normal navigation)
//   - inline <style> and <script> blocks
//   - body content, including body-level scripts
//   - an existing <base> element
func (d *Document) Prepare() (string, error) {
	root, err := html.Parse(strings.NewReader(d.Raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	head := findElement(root, atom.Head)
	if head == nil {
		// html.Parse always synthesizes <head>; guard anyway.
		return "", fmt.Errorf("%w: no head element", ErrParse)
	}

	stripLocalResources(head)

	if findElement(head, atom.Base) == nil {
		base := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Base,
			Data:     "base",
			Attr:     []html.Attribute{{Key: "href", Val: fileutil.DirToFileURL(d.Dir)}},
		}
		head.InsertBefore(base, head.FirstChild)
	}

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("rendering prepared document: %w", err)
	}
	return buf.String(), nil
}

// findElement returns the first element with the given atom in depth-first order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// stripLocalResources removes the head elements that the injector loads instead.
func stripLocalResources(head *html.Node) {
	var drop []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isInjected(n) {
			drop = append(drop, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(head)

	for _, n := range drop {
		n.Parent.RemoveChild(n)
	}
}

// isInjected mirrors the selection rules of Parse.
func isInjected(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Link:
		rel, _ := attr(n, "rel")
		href, ok := attr(n, "href")
		return ok && hasToken(rel, "stylesheet") && IsLocal(strings.TrimSpace(href))
	case atom.Script:
		src, ok := attr(n, "src")
		return ok && IsLocal(strings.TrimSpace(src))
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
