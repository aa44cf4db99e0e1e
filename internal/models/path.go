package models

import (
	"strconv"
	"strings"
)

// Segment is one step of a FieldPath: either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// FieldPath addresses one location inside a JSON tree.
type FieldPath []Segment

// Key returns a new path with an object-key segment appended.
func (p FieldPath) Key(key string) FieldPath {
	return p.append(Segment{Key: key})
}

// Index returns a new path with an array-index segment appended.
func (p FieldPath) Index(i int) FieldPath {
	return p.append(Segment{Index: i, IsIndex: true})
}

// append never shares the backing array with p, so sibling paths built from
// the same parent stay independent.
func (p FieldPath) append(s Segment) FieldPath {
	out := make(FieldPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// LastKey returns the key of the final segment, or "" if it is an index.
func (p FieldPath) LastKey() string {
	if len(p) == 0 || p[len(p)-1].IsIndex {
		return ""
	}
	return p[len(p)-1].Key
}

// String renders the path as dotted keys with bracketed indices,
// e.g. user.emails[0].address. A key that is empty or contains any of
// . [ ] " is written quoted in brackets, e.g. user["a.b"], so distinct
// paths never render the same.
func (p FieldPath) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case seg.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case needsQuoting(seg.Key):
			b.WriteByte('[')
			b.WriteString(strconv.Quote(seg.Key))
			b.WriteByte(']')
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		}
	}
	return b.String()
}

func needsQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"`)
}

// SetPath returns a deep clone of root with the location at path replaced by
// v. The original root is never modified. Intermediate locations missing on
// the clone are created as empty objects; an index addressed on an object is
// used as its decimal key, and an index past the end of an array pads the
// array with nulls.
func SetPath(root Value, path FieldPath, v Value) Value {
	if len(path) == 0 {
		return Clone(v)
	}
	clone := Clone(root)
	return setIn(clone, path, Clone(v))
}

// setIn writes v into container at path and returns the (possibly replaced)
// container. container is already a private clone.
func setIn(container Value, path FieldPath, v Value) Value {
	seg := path[0]
	rest := path[1:]

	switch c := container.(type) {
	case Array:
		if seg.IsIndex {
			for len(c) <= seg.Index {
				c = append(c, Null{})
			}
			if len(rest) == 0 {
				c[seg.Index] = v
			} else {
				c[seg.Index] = setIn(c[seg.Index], rest, v)
			}
			return c
		}
		// A key on an array has no JSON representation; rebuild as an object.
		obj := NewObject()
		for i, elem := range c {
			obj.Set(strconv.Itoa(i), elem)
		}
		return setIn(obj, path, v)
	case *Object:
		key := seg.Key
		if seg.IsIndex {
			key = strconv.Itoa(seg.Index)
		}
		if len(rest) == 0 {
			c.Set(key, v)
			return c
		}
		child, ok := c.Get(key)
		if !ok || !isContainer(child) {
			child = NewObject()
		}
		c.Set(key, setIn(child, rest, v))
		return c
	default:
		return setIn(NewObject(), path, v)
	}
}

func isContainer(v Value) bool {
	switch KindOf(v) {
	case KindArray, KindObject:
		return true
	default:
		return false
	}
}
