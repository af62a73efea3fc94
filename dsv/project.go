package dsv

import "strconv"

// pathSeg is one segment of a header's nested-key path: a plain object
// key, or an object key paired with an array index when the segment
// carried a nap suffix (nop="." nap="#" turns
// "b.d#1" into object key "b" -> array "d" index 1).
type pathSeg struct {
	key   string
	index int // -1 = not an array element
}

// Project reconstructs the nested JSON-shaped tree implied by the
// header's nop/nap path syntax: one map per data row, padded per the
// configured RowSymmetry, with a null-symmetry-padded or empty-valued
// cell becoming nil at the leaf.
func (t *Table) Project(syn *Syntax) ([]any, error) {
	if syn == nil {
		syn = t.syn
	}
	paths := make([][]pathSeg, t.header.Len())
	for i, cell := range t.header.cells {
		paths[i] = parsePath(cell.Value(), syn)
	}
	rows, err := t.ReadAllCells()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(t.data))
	for _, row := range rows[1:] {
		obj := map[string]any{}
		for i, cell := range row {
			if i >= len(paths) {
				break
			}
			var val any
			if !cell.IsNull() && cell.Value() != "" {
				val = cell.Value()
			}
			setPath(obj, paths[i], val)
		}
		out = append(out, obj)
	}
	return out, nil
}

func parsePath(header string, syn *Syntax) []pathSeg {
	if syn == nil || syn.Nop == 0 {
		key, idx := splitNap(header, napByte(syn))
		return []pathSeg{{key: key, index: idx}}
	}
	parts := splitByByte(header, syn.Nop)
	segs := make([]pathSeg, len(parts))
	for i, part := range parts {
		key, idx := splitNap(part, napByte(syn))
		segs[i] = pathSeg{key: key, index: idx}
	}
	return segs
}

func napByte(syn *Syntax) byte {
	if syn == nil {
		return 0
	}
	return syn.Nap
}

func splitByByte(s string, b byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func splitNap(s string, nap byte) (string, int) {
	if nap == 0 {
		return s, -1
	}
	for i := 0; i < len(s); i++ {
		if s[i] == nap {
			n, err := strconv.Atoi(s[i+1:])
			if err != nil {
				return s, -1
			}
			return s[:i], n
		}
	}
	return s, -1
}

// setPath writes val into obj at the location segs describes, creating
// intermediate objects and arrays as needed.
func setPath(obj map[string]any, segs []pathSeg, val any) {
	cur := obj
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.index >= 0 {
			arr, _ := cur[seg.key].([]any)
			for len(arr) <= seg.index {
				arr = append(arr, nil)
			}
			if last {
				arr[seg.index] = val
				cur[seg.key] = arr
				return
			}
			child, _ := arr[seg.index].(map[string]any)
			if child == nil {
				child = map[string]any{}
			}
			arr[seg.index] = child
			cur[seg.key] = arr
			cur = child
			continue
		}
		if last {
			cur[seg.key] = val
			return
		}
		child, _ := cur[seg.key].(map[string]any)
		if child == nil {
			child = map[string]any{}
			cur[seg.key] = child
		}
		cur = child
	}
}
