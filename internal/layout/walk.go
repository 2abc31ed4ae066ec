package layout

// Tabs returns every tab under root that has a tab group ancestor, in
// depth-first pre-order. Tab nodes are leaves; their children are not visited.
func Tabs(root Node) []Tab {
	var tabs []Tab
	var walk func(n Node, inGroup bool)
	walk = func(n Node, inGroup bool) {
		if n == nil {
			return
		}
		if t, ok := n.(Tab); ok {
			if inGroup {
				tabs = append(tabs, t)
			}
			return
		}
		if _, ok := n.(TabGroup); ok {
			inGroup = true
		}
		for _, child := range n.Children() {
			walk(child, inGroup)
		}
	}
	walk(root, false)
	return tabs
}

// FindRemover returns the first node in pre-order that can remove tabs.
func FindRemover(root Node) TabRemover {
	if root == nil {
		return nil
	}
	if r, ok := root.(TabRemover); ok {
		return r
	}
	for _, child := range root.Children() {
		if r := FindRemover(child); r != nil {
			return r
		}
	}
	return nil
}
