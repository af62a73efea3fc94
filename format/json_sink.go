package format

// JSONValue is an out-of-scope-for-formatting, in-scope-for-emission
// sink: it builds the opaque `any` tree (map[string]any / []any /
// string / float64 / int64 / bool / nil) that DSV's nested-key
// projection and a caller's own JSON encoder consume, rather
// than rendering text itself.
type JSONValue struct {
	root   any
	frames []any // stack of open containers, for Append called mid-build
}

// NewJSONValue returns an empty JSONValue sink rooted at nil.
func NewJSONValue() *JSONValue { return &JSONValue{} }

// Append sets or merges value into the sink's root. An Expression
// renders into the tree via Format; any other value (the projection
// builder's already-assembled map[string]any or []any, or a scalar leaf)
// replaces or merges with the existing root.
func (j *JSONValue) Append(value any, syntax any) error {
	if expr, ok := value.(Expression); ok {
		return expr.Format(j, syntax)
	}
	if j.root == nil {
		j.root = value
		return nil
	}
	merged, err := mergeJSON(j.root, value)
	if err != nil {
		return err
	}
	j.root = merged
	return nil
}

func mergeJSON(a, b any) (any, error) {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if aok && bok {
		out := make(map[string]any, len(am)+len(bm))
		for k, v := range am {
			out[k] = v
		}
		for k, v := range bm {
			out[k] = v
		}
		return out, nil
	}
	as, asok := a.([]any)
	bs, bsok := b.([]any)
	if asok && bsok {
		return append(append([]any(nil), as...), bs...), nil
	}
	return b, nil
}

// Reverse reverses the root when it is a top-level array; a no-op for
// any other shape.
func (j *JSONValue) Reverse() {
	arr, ok := j.root.([]any)
	if !ok {
		return
	}
	for i, k := 0, len(arr)-1; i < k; i, k = i+1, k-1 {
		arr[i], arr[k] = arr[k], arr[i]
	}
}

// Equal does a deep structural comparison of two JSONValue roots.
func (j *JSONValue) Equal(other Sink) bool {
	o, ok := other.(*JSONValue)
	if !ok {
		return false
	}
	return deepEqualJSON(j.root, o.root)
}

func deepEqualJSON(a, b any) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if aok || bok {
		if !aok || !bok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !deepEqualJSON(av, bv) {
				return false
			}
		}
		return true
	}
	as, asok := a.([]any)
	bs, bsok := b.([]any)
	if asok || bsok {
		if !asok || !bsok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !deepEqualJSON(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Data returns the accumulated tree.
func (j *JSONValue) Data() any { return j.root }
