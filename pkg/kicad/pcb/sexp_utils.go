package pcb

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/magwrap/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// findNode returns the first child list whose key matches, e.g.
// findNode(segment, "start") finds (start 10 20).
func findNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return nil, false
	}
	for _, item := range list.Items {
		if child, ok := item.(*kicadsexp.List); ok && child.Key() == key {
			return child, true
		}
	}
	return nil, false
}

// findAllNodes returns every child list whose key matches
func findAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return nil
	}
	var results []*kicadsexp.List
	for _, item := range list.Items {
		if child, ok := item.(*kicadsexp.List); ok && child.Key() == key {
			results = append(results, child)
		}
	}
	return results
}

// hasFlag reports whether a bare symbol appears among the list's items,
// e.g. (segment locked (start ...)) on older files.
func hasFlag(list *kicadsexp.List, flag string) bool {
	for _, item := range list.Items[1:] {
		if sym, ok := item.(kicadsexp.Symbol); ok && sym.Value == flag {
			return true
		}
	}
	return false
}

// getString returns the atom at index, quoted or bare. Index 0 is the key.
func getString(list *kicadsexp.List, index int) (string, error) {
	item := list.Get(index)
	if item == nil {
		return "", fmt.Errorf("(%s) has no value at index %d", list.Key(), index)
	}
	value, ok := kicadsexp.Atom(item)
	if !ok {
		return "", fmt.Errorf("(%s) expected atom at index %d, got list", list.Key(), index)
	}
	return value, nil
}

// getFloat extracts a float64 value at the given index
func getFloat(list *kicadsexp.List, index int) (float64, error) {
	str, err := getString(list, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("(%s) invalid number %q", list.Key(), str)
	}
	return val, nil
}

// getInt extracts an int value at the given index
func getInt(list *kicadsexp.List, index int) (int, error) {
	str, err := getString(list, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("(%s) invalid integer %q", list.Key(), str)
	}
	return val, nil
}

// getPosition extracts X and Y from a (keyword X Y) node such as
// (start 10 20) or (end 30 40)
func getPosition(list *kicadsexp.List) (Position, error) {
	x, err := getFloat(list, 1)
	if err != nil {
		return Position{}, err
	}
	y, err := getFloat(list, 2)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// requirePosition finds and parses a mandatory (key X Y) child
func requirePosition(node *kicadsexp.List, key string) (Position, error) {
	child, found := findNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing required '%s' position", key)
	}
	pos, err := getPosition(child)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse %s position: %w", key, err)
	}
	return pos, nil
}
