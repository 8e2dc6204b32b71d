package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// leafTags are the node tags written as a dataset (WriteDataset) rather
// than a group — ListChildren has nothing to return for any of them.
var leafTags = map[string]bool{
	string(registry.TagStr):         true,
	string(registry.TagBytes):       true,
	string(registry.TagPy2Bytes):    true,
	string(registry.TagArray):       true,
	string(registry.TagPathPosix):   true,
	string(registry.TagPathWindows): true,
}

func init() {
	rootCmd.AddCommand(newInspectCmd())
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.h5>",
		Short: "Print the node tree of an h5it container with tags",
		Long: `inspect opens an h5it container and prints every node under the
namespace root, each annotated with its "type" tag and, for soft links, the
target path.

Example:
  h5itctl inspect graph.h5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

// node is the JSON-serializable shape --json emits for one tree entry.
type node struct {
	Path     string `json:"path"`
	Tag      string `json:"type,omitempty"`
	LinkTo   string `json:"link_to,omitempty"`
	Children []node `json:"children,omitempty"`
}

func runInspect(path string) error {
	driver, err := container.Open(path)
	if err != nil {
		return fmt.Errorf("h5itctl: open %s: %w", path, err)
	}
	defer driver.Close()

	root := container.Path{container.RootGroup}
	if ok, err := driver.Exists(root); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("h5itctl: %s has no %q namespace group", path, container.RootGroup)
	}

	tree, err := describe(driver, root)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}
	printTree(tree, 0)
	return nil
}

func describe(driver container.Driver, at container.Path) (node, error) {
	n := node{Path: at.String()}

	if target, isLink, err := driver.ReadLink(at); err != nil {
		return node{}, err
	} else if isLink {
		n.LinkTo = target.String()
		return n, nil
	}

	if tag, ok, err := driver.GetAttr(at, "type"); err != nil {
		return node{}, err
	} else if ok {
		if s, ok := tag.(string); ok {
			n.Tag = s
		}
	}

	if leafTags[n.Tag] {
		return n, nil
	}

	names, err := driver.ListChildren(at)
	if err != nil {
		return node{}, err
	}
	sort.Strings(names)
	for _, name := range names {
		child, err := describe(driver, at.Child(name))
		if err != nil {
			return node{}, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func printTree(n node, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch {
	case n.LinkTo != "":
		printInfo("%s%s -> %s (soft link)\n", indent, n.Path, n.LinkTo)
	case n.Tag != "":
		printInfo("%s%s [%s]\n", indent, n.Path, n.Tag)
	default:
		printInfo("%s%s\n", indent, n.Path)
	}
	for _, c := range n.Children {
		printTree(c, depth+1)
	}
}
