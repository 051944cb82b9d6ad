package project

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// MSBuildNamespace is the XML namespace of .vcxproj and .props documents.
const MSBuildNamespace = "http://schemas.microsoft.com/developer/msbuild/2003"

// utf8BOM is written back when the loaded file carried one (Visual Studio writes it).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// Element and attribute names shared by both document kinds.
const (
	elemProject             = "Project"
	elemItemGroup           = "ItemGroup"
	elemImportGroup         = "ImportGroup"
	elemImport              = "Import"
	elemItemDefinitionGroup = "ItemDefinitionGroup"

	attrLabel     = "Label"
	attrCondition = "Condition"
	attrInclude   = "Include"
	attrProject   = "Project"

	labelProjectConfigurations = "ProjectConfigurations"
	labelPropertySheets        = "PropertySheets"
)

// errNoProjectRoot is returned when a document parses but is not an MSBuild project.
var errNoProjectRoot = errors.New("root element is not <Project>")

// document is an MSBuild XML file held as an order-preserving element tree.
// Every element, attribute, comment and namespace declaration read from disk
// is written back unchanged apart from the edits made through the tree.
type document struct {
	path string
	doc  *etree.Document
	bom  bool
	// crlf is set when the file used Windows line endings. The XML decoder
	// normalizes them to LF, so they are restored on save.
	crlf bool
}

// readDocument reads and parses an MSBuild XML file. kind names the file type in
// error messages ("project file", "property sheet").
func readDocument(path, kind string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	d, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s XML: %w", strings.TrimSuffix(kind, " file"), err)
	}
	d.path = path
	return d, nil
}

func parseDocument(data []byte) (*document, error) {
	hasBOM := bytes.HasPrefix(data, utf8BOM)
	data = bytes.TrimPrefix(data, utf8BOM)
	hasCRLF := bytes.Contains(data, crlf)

	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	// Leave quotes unescaped so MSBuild conditions such as
	// '$(Configuration)|$(Platform)'=='Debug|Win32' are written as read.
	doc.WriteSettings.CanonicalAttrVal = true
	doc.WriteSettings.CanonicalText = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil || root.Tag != elemProject {
		return nil, errNoProjectRoot
	}

	return &document{doc: doc, bom: hasBOM, crlf: hasCRLF}, nil
}

// checkWellFormed runs the strict encoding/xml tokenizer over data so that
// unclosed or mismatched elements are rejected at load time.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// clone returns an independent copy of the tree bound to the same file.
func (d *document) clone() *document {
	return &document{path: d.path, doc: d.doc.Copy(), bom: d.bom, crlf: d.crlf}
}

func (d *document) root() *etree.Element {
	return d.doc.Root()
}

// save serializes the whole tree back to the file it was read from.
func (d *document) save(kind string) error {
	out, err := d.doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	if d.crlf {
		out = bytes.ReplaceAll(bytes.ReplaceAll(out, crlf, lf), lf, crlf)
	}

	if d.bom {
		out = append(append([]byte{}, utf8BOM...), out...)
	}

	if err := os.WriteFile(d.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// labeledChildren returns the direct children of parent named tag whose Label
// attribute equals label.
func labeledChildren(parent *etree.Element, tag, label string) []*etree.Element {
	var matches []*etree.Element
	for _, el := range parent.SelectElements(tag) {
		if el.SelectAttrValue(attrLabel, "") == label {
			matches = append(matches, el)
		}
	}
	return matches
}

// hasAttr reports whether el carries the attribute key at all, empty or not.
func hasAttr(el *etree.Element, key string) bool {
	return el.SelectAttr(key) != nil
}

// SheetName converts a property sheet path into its identifier: the file name
// without its last extension. Both '/' and '\' are accepted as separators
// because project files written on Windows use backslashes.
func SheetName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		path = path[:i]
	}
	return path
}
