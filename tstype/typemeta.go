package tstype

import "fmt"

// Kind tags the shape of a time-series value. Dispatch throughout this package
// and callers is by concrete Go type, not by Kind; Kind exists for describing
// and comparing schemas (builder-time validation, error messages, debug output).
type Kind int

const (
	KindScalar Kind = iota
	KindBundle
	KindSet
	KindList
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindBundle:
		return "BUNDLE"
	case KindSet:
		return "SET"
	case KindList:
		return "LIST"
	case KindRef:
		return "REF"
	default:
		return "UNKNOWN"
	}
}

// BundleField names one member of a bundle schema.
type BundleField struct {
	Name string
	Type *TypeMeta
}

// TypeMeta describes the shape of a time-series value. It is a plain
// descriptor, not a value: a node's Output/Input carries one alongside its
// runtime state.
type TypeMeta struct {
	Kind Kind

	// ScalarName is informational for KindScalar: the name of the underlying
	// Go type (e.g. "float64", "string"), used only for error messages.
	ScalarName string

	// Elem is the element type for KindSet and KindRef, and the element
	// type for KindList when every slot shares one type.
	Elem *TypeMeta

	// Fields is the ordered schema for KindBundle.
	Fields []BundleField

	// Size is the slot count for KindList. A list's slots are created once,
	// at construction; 0 gives a list with no slots, and lists never grow.
	Size int
}

func Scalar(name string) *TypeMeta {
	return &TypeMeta{Kind: KindScalar, ScalarName: name}
}

func Bundle(fields ...BundleField) *TypeMeta {
	return &TypeMeta{Kind: KindBundle, Fields: fields}
}

func Set(elem *TypeMeta) *TypeMeta {
	return &TypeMeta{Kind: KindSet, Elem: elem}
}

func List(elem *TypeMeta, size int) *TypeMeta {
	return &TypeMeta{Kind: KindList, Elem: elem, Size: size}
}

func Ref(target *TypeMeta) *TypeMeta {
	return &TypeMeta{Kind: KindRef, Elem: target}
}

// FieldIndex returns the position of name within a bundle schema, or -1.
func (t *TypeMeta) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether two type descriptors describe the same shape. Bundle
// field order matters: the same fields in a different order are not equal.
func (t *TypeMeta) Equal(o *TypeMeta) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindScalar:
		return t.ScalarName == o.ScalarName
	case KindBundle:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if f.Name != o.Fields[i].Name || !f.Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindSet, KindRef:
		return t.Elem.Equal(o.Elem)
	case KindList:
		return t.Size == o.Size && t.Elem.Equal(o.Elem)
	default:
		return false
	}
}

// Resolve substitutes named type variables (e.g. a scalar descriptor whose
// ScalarName is a parametric placeholder such as "SCALAR_T") with a concrete
// binding, returning a new descriptor tree. Non-parametric nodes pass through
// unchanged. It turns a generic schema (e.g. one for an "add" over any
// numeric scalar) into a concrete one; GraphBuilder.MakeInstance does not
// call it.
func (t *TypeMeta) Resolve(bindings map[string]*TypeMeta) (*TypeMeta, error) {
	if t == nil {
		return nil, nil
	}
	switch t.Kind {
	case KindScalar:
		if bound, ok := bindings[t.ScalarName]; ok {
			return bound, nil
		}
		return t, nil
	case KindBundle:
		fields := make([]BundleField, len(t.Fields))
		for i, f := range t.Fields {
			resolved, err := f.Type.Resolve(bindings)
			if err != nil {
				return nil, err
			}
			fields[i] = BundleField{Name: f.Name, Type: resolved}
		}
		return Bundle(fields...), nil
	case KindSet:
		elem, err := t.Elem.Resolve(bindings)
		if err != nil {
			return nil, err
		}
		return Set(elem), nil
	case KindList:
		elem, err := t.Elem.Resolve(bindings)
		if err != nil {
			return nil, err
		}
		return List(elem, t.Size), nil
	case KindRef:
		elem, err := t.Elem.Resolve(bindings)
		if err != nil {
			return nil, err
		}
		return Ref(elem), nil
	default:
		return nil, fmt.Errorf("tstype: cannot resolve unknown kind %v", t.Kind)
	}
}

func (t *TypeMeta) String() string {
	switch t.Kind {
	case KindScalar:
		return t.ScalarName
	case KindBundle:
		s := "BUNDLE{"
		for i, f := range t.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.Type.String()
		}
		return s + "}"
	case KindSet:
		return "SET[" + t.Elem.String() + "]"
	case KindList:
		return fmt.Sprintf("LIST[%s;%d]", t.Elem.String(), t.Size)
	case KindRef:
		return "REF[" + t.Elem.String() + "]"
	default:
		return "?"
	}
}
