package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// LeadingText returns the trimmed text of the node that directly follows the
// opening tag of the first element in sel, that is its first child. Text that
// comes after a nested element is ignored.
func LeadingText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	first := sel.Nodes[0].FirstChild
	if first == nil {
		return ""
	}
	return strings.TrimSpace(GetText(first))
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

// InnerHtml renders the children of the first element in sel. Text is escaped
// minimally, only &, < and > are replaced, so quotes and apostrophes come out
// as they were written.
func InnerHtml(sel *goquery.Selection) (string, error) {
	if sel.Length() == 0 {
		return "", nil
	}
	var out strings.Builder
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		err := renderMinimal(&out, child)
		if err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

func qualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}

func renderMinimal(out *strings.Builder, node *html.Node) error {
	switch node.Type {
	case html.TextNode:
		if node.Parent != nil && node.Parent.Type == html.ElementNode && rawTextElements[node.Parent.Data] {
			out.WriteString(node.Data)
			return nil
		}
		textEscaper.WriteString(out, node.Data)
		return nil
	case html.CommentNode:
		out.WriteString("<!--")
		out.WriteString(node.Data)
		out.WriteString("-->")
		return nil
	case html.ElementNode:
	default:
		return html.Render(out, node)
	}

	out.WriteByte('<')
	out.WriteString(node.Data)
	for _, attr := range node.Attr {
		out.WriteByte(' ')
		out.WriteString(qualifiedName(attr.Namespace, attr.Key))
		out.WriteString(`="`)
		attrEscaper.WriteString(out, attr.Val)
		out.WriteByte('"')
	}
	if voidElements[node.Data] && node.FirstChild == nil {
		out.WriteString("/>")
		return nil
	}
	out.WriteByte('>')

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		err := renderMinimal(out, child)
		if err != nil {
			return err
		}
	}

	out.WriteString("</")
	out.WriteString(node.Data)
	out.WriteByte('>')
	return nil
}
