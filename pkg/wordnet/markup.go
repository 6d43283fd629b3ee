package wordnet

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"unicode/utf8"

	"github.com/go-shiori/dom"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed markup file. The tree is built from the XML token
// stream into html.Node values so the dom helpers can query it; self-closing
// elements such as <relation/> stay leaves.
type Document struct {
	root *html.Node
}

// LoadDocument reads the file at path and parses it.
func LoadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}

	doc, err := parseDocument(content)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %s", path)
	}
	return doc, nil
}

// ReadDocument parses a document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read document")
	}
	return parseDocument(content)
}

func parseDocument(content []byte) (*Document, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	root := &html.Node{Type: html.DocumentNode}
	current := root

	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not parse markup")
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &html.Node{Type: html.ElementNode, Data: t.Name.Local}
			for _, a := range t.Attr {
				node.Attr = append(node.Attr, html.Attribute{Key: a.Name.Local, Val: a.Value})
			}
			current.AppendChild(node)
			current = node
		case xml.EndElement:
			current = current.Parent
		case xml.CharData:
			current.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}

	return &Document{root: root}, nil
}

// FindAll returns every element with the given tag, in document order.
func (d *Document) FindAll(tag string) []*html.Node {
	return dom.GetElementsByTagName(d.root, tag)
}

// findAllIn returns every descendant of node with the given tag.
func findAllIn(node *html.Node, tag string) []*html.Node {
	return dom.GetElementsByTagName(node, tag)
}

// requiredAttr returns the value of attribute name, failing when the element
// does not carry it.
func requiredAttr(node *html.Node, name string) (string, error) {
	if !dom.HasAttribute(node, name) {
		return "", &AttributeError{Element: node.Data, Attribute: name}
	}
	return dom.GetAttribute(node, name), nil
}

// textOf returns the concatenated text of node and its descendants.
func textOf(node *html.Node) string {
	return dom.TextContent(node)
}
