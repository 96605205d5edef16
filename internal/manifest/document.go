package manifest

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/equality"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// Path addresses a field by its ordered mapping keys.
type Path []string

// P builds a Path from keys.
func P(keys ...string) Path {
	return Path(keys)
}

// Child returns a new path with key appended. The receiver is not modified.
func (p Path) Child(key string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, key)
}

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return strings.Join(p, ".")
}

// Document is a single decoded manifest document.
type Document struct {
	Object map[string]interface{}
}

// New wraps obj as a Document. A nil map is replaced by an empty one.
func New(obj map[string]interface{}) *Document {
	if obj == nil {
		obj = map[string]interface{}{}
	}
	return &Document{Object: obj}
}

// Kind returns the document's kind, or "" when unset.
func (d *Document) Kind() string {
	return (&unstructured.Unstructured{Object: d.Object}).GetKind()
}

// Name returns metadata.name, or "" when unset.
func (d *Document) Name() string {
	return (&unstructured.Unstructured{Object: d.Object}).GetName()
}

// Get returns the value at path. found is false when any key along the path
// is absent or a non-mapping value is traversed.
func (d *Document) Get(path Path) (interface{}, bool) {
	if len(path) == 0 {
		return d.Object, true
	}
	value, found, err := unstructured.NestedFieldNoCopy(d.Object, path...)
	if err != nil || !found {
		return nil, false
	}
	return value, true
}

// Require returns the value at path, failing with ErrFieldMissing when the
// field is absent or null.
func (d *Document) Require(path Path) (interface{}, error) {
	value, found := d.Get(path)
	if !found || value == nil {
		return nil, &FieldError{Path: path, Err: ErrFieldMissing}
	}
	return value, nil
}

// RequireMap is Require for fields that must hold a mapping.
func (d *Document) RequireMap(path Path) (map[string]interface{}, error) {
	value, err := d.Require(path)
	if err != nil {
		return nil, err
	}
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, &FieldError{Path: path, Err: ErrNotMap}
	}
	return m, nil
}

// Set stores value at path, creating intermediate mappings as needed.
// Sibling keys are left untouched. Go ints, string slices and string maps
// are converted to their JSON-compatible forms.
func (d *Document) Set(path Path, value interface{}) error {
	if len(path) == 0 {
		return &FieldError{Path: path, Err: fmt.Errorf("cannot replace document root")}
	}
	normalized, err := normalize(value)
	if err != nil {
		return &FieldError{Path: path, Err: err}
	}
	if err := unstructured.SetNestedField(d.Object, normalized, path...); err != nil {
		return &FieldError{Path: path, Err: fmt.Errorf("%w: %v", ErrNotMap, err)}
	}
	return nil
}

// EnsureMap returns the mapping at path, creating an empty one when the field
// is absent or null. A populated mapping is returned as is.
func (d *Document) EnsureMap(path Path) (map[string]interface{}, error) {
	value, found := d.Get(path)
	if found && value != nil {
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, &FieldError{Path: path, Err: ErrNotMap}
		}
		return m, nil
	}
	if err := d.Set(path, map[string]interface{}{}); err != nil {
		return nil, err
	}
	m, _ := d.Get(path)
	return m.(map[string]interface{}), nil
}

// DeepCopy returns an independent copy of the document.
func (d *Document) DeepCopy() *Document {
	if d == nil {
		return nil
	}
	return &Document{Object: runtime.DeepCopyJSON(d.Object)}
}

// Equal reports whether both documents hold the same keys and values.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return equality.Semantic.DeepEqual(d.Object, other.Object)
}

// normalize converts common Go values into the JSON-compatible forms accepted
// by the unstructured helpers.
func normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i, m := range v {
			n, err := normalize(m)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
