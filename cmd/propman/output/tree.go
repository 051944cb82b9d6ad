package output

import (
	"github.com/disiqueira/gotree/v3"
)

// SheetTree renders a project's configurations with the sheets active in each.
type SheetTree struct {
	tree    gotree.Tree
	configs map[string]gotree.Tree
}

// NewSheetTree starts a tree labelled with the project name.
func NewSheetTree(rootLabel string) SheetTree {
	return SheetTree{tree: gotree.New(rootLabel), configs: make(map[string]gotree.Tree)}
}

func (t SheetTree) config(name string) gotree.Tree {
	node := t.configs[name]
	if node == nil {
		node = t.tree.Add(name)
		t.configs[name] = node
	}
	return node
}

// AddConfiguration adds a configuration node, even when it has no active sheets.
func (t SheetTree) AddConfiguration(name string) {
	t.config(name)
}

// AddSheet adds a sheet under its configuration.
func (t SheetTree) AddSheet(configuration, sheet string) {
	t.config(configuration).Add(sheet)
}

// Render returns the tree drawn with box characters.
func (t SheetTree) Render() string {
	return t.tree.Print()
}
