package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one step of a parsed field path. A path like
// "models[2].containerConfig.image" yields a key segment, an index segment
// and two more key segments.
type segment struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a dot/bracket path into segments. Bracket contents must
// be non-negative integers.
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("empty field path")
	}

	var segs []segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid field path %q", path)
		}

		for {
			open := strings.IndexByte(part, '[')
			if open == -1 {
				if part != "" {
					segs = append(segs, segment{key: part})
				}
				break
			}

			if open > 0 {
				segs = append(segs, segment{key: part[:open]})
			}

			closeIdx := strings.IndexByte(part, ']')
			if closeIdx < open {
				return nil, fmt.Errorf("unbalanced brackets in field path %q", path)
			}

			idx, err := strconv.Atoi(part[open+1 : closeIdx])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid array index in field path %q", path)
			}
			segs = append(segs, segment{index: idx, isIndex: true})

			part = part[closeIdx+1:]
		}
	}

	if len(segs) == 0 {
		return nil, fmt.Errorf("invalid field path %q", path)
	}
	return segs, nil
}

// getPath resolves a parsed path against a document. The second return is
// false when any step is missing or of the wrong shape.
func getPath(doc interface{}, segs []segment) (interface{}, bool) {
	cur := doc
	for _, seg := range segs {
		if seg.isIndex {
			arr, ok := cur.([]interface{})
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
			continue
		}

		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes value at the parsed path, creating intermediate maps as
// needed. An index equal to the current array length appends; anything past
// that is an error. merge shallow-merges maps instead of replacing them.
func setPath(doc map[string]interface{}, segs []segment, value interface{}, merge bool) error {
	parent, last, err := walkToParent(doc, segs, true)
	if err != nil {
		return err
	}

	if last.isIndex {
		arr, ok := parent.([]interface{})
		if !ok {
			return fmt.Errorf("cannot index into non-array value")
		}
		switch {
		case last.index < len(arr):
			arr[last.index] = mergeValue(arr[last.index], value, merge)
			return nil
		case last.index == len(arr):
			// Appending rewrites the parent slot since the slice grows
			holder, key, err := arrayHolder(doc, segs)
			if err != nil {
				return err
			}
			return storeAt(holder, key, append(arr, value))
		default:
			return fmt.Errorf("array index %d out of range (len %d)", last.index, len(arr))
		}
	}

	m, ok := parent.(map[string]interface{})
	if !ok {
		return fmt.Errorf("cannot set key %q on non-object value", last.key)
	}
	m[last.key] = mergeValue(m[last.key], value, merge)
	return nil
}

// unsetPath removes the value at the parsed path. Removing an array index
// shifts every later element down by one.
func unsetPath(doc map[string]interface{}, segs []segment) error {
	parent, last, err := walkToParent(doc, segs, false)
	if err != nil {
		return err
	}

	if last.isIndex {
		// The parent slot must be rewritten since the slice shrinks
		holder, key, err := arrayHolder(doc, segs)
		if err != nil {
			return err
		}
		arr, ok := parent.([]interface{})
		if !ok {
			return fmt.Errorf("cannot unset index on non-array value")
		}
		if last.index >= len(arr) {
			return fmt.Errorf("array index %d out of range (len %d)", last.index, len(arr))
		}
		shrunk := append(arr[:last.index:last.index], arr[last.index+1:]...)
		return storeAt(holder, key, shrunk)
	}

	m, ok := parent.(map[string]interface{})
	if !ok {
		return fmt.Errorf("cannot unset key %q on non-object value", last.key)
	}
	delete(m, last.key)
	return nil
}

// walkToParent navigates to the container holding the final segment. When
// create is true, missing intermediate maps are created.
func walkToParent(doc map[string]interface{}, segs []segment, create bool) (interface{}, segment, error) {
	var cur interface{} = doc

	for i := 0; i < len(segs)-1; i++ {
		seg := segs[i]

		if seg.isIndex {
			arr, ok := cur.([]interface{})
			if !ok {
				return nil, segment{}, fmt.Errorf("path step %d is not an array", i)
			}
			if seg.index >= len(arr) {
				return nil, segment{}, fmt.Errorf("array index %d out of range (len %d)", seg.index, len(arr))
			}
			cur = arr[seg.index]
			continue
		}

		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, segment{}, fmt.Errorf("path step %q is not an object", seg.key)
		}
		next, exists := m[seg.key]
		if !exists {
			if !create {
				return nil, segment{}, fmt.Errorf("path step %q does not exist", seg.key)
			}
			if segs[i+1].isIndex {
				next = []interface{}{}
			} else {
				next = map[string]interface{}{}
			}
			m[seg.key] = next
		}
		cur = next
	}

	return cur, segs[len(segs)-1], nil
}

// arrayHolder finds the container and key/index that hold the final array,
// so a shrunk or grown slice can be stored back.
func arrayHolder(doc map[string]interface{}, segs []segment) (interface{}, segment, error) {
	if len(segs) < 2 {
		return nil, segment{}, fmt.Errorf("array path too short")
	}
	holder, _, err := walkToParent(doc, segs[:len(segs)-1], false)
	if err != nil {
		return nil, segment{}, err
	}
	return holder, segs[len(segs)-2], nil
}

// storeAt writes value into holder at the given key or index segment.
func storeAt(holder interface{}, key segment, value interface{}) error {
	if key.isIndex {
		arr, ok := holder.([]interface{})
		if !ok || key.index >= len(arr) {
			return fmt.Errorf("cannot store into array holder")
		}
		arr[key.index] = value
		return nil
	}
	m, ok := holder.(map[string]interface{})
	if !ok {
		return fmt.Errorf("cannot store into non-object holder")
	}
	m[key.key] = value
	return nil
}

// mergeValue shallow-merges maps when merge is requested, otherwise replaces.
func mergeValue(existing, value interface{}, merge bool) interface{} {
	if !merge {
		return value
	}
	existingMap, ok1 := existing.(map[string]interface{})
	patch, ok2 := value.(map[string]interface{})
	if !ok1 || !ok2 {
		return value
	}
	for k, v := range patch {
		existingMap[k] = v
	}
	return existingMap
}
