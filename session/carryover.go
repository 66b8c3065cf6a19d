package session

import (
	"math"

	"github.com/soypat/tonelab"
	"github.com/soypat/tonelab/control"
)

// SnapshotEntry is the type and value of a uniform captured before a pass.
type SnapshotEntry struct {
	Type  tonelab.ValueType
	Value tonelab.Value
}

// Snapshot maps uniform names to their last values.
type Snapshot map[string]SnapshotEntry

// TakeSnapshot reads every control. When names repeat the later uniform wins.
func TakeSnapshot(uniforms []Uniform) Snapshot {
	snap := make(Snapshot, len(uniforms))
	for i := range uniforms {
		u := &uniforms[i]
		snap[u.Name] = SnapshotEntry{Type: u.Type, Value: u.Control.Value()}
	}
	return snap
}

// Reconcile returns one control spec per descriptor. A snapshot entry with
// the same name and type is restored when the new control can represent it,
// otherwise the descriptor's default is used.
func Reconcile(descs []tonelab.UniformDescriptor, snap Snapshot) []control.Spec {
	specs := make([]control.Spec, len(descs))
	for i := range descs {
		ud := &descs[i]
		specs[i] = control.DefaultSpec(ud)
		entry, ok := snap[ud.Name]
		if ok && entry.Type == ud.Type {
			restore(&specs[i], entry.Value)
		}
	}
	return specs
}

func restore(spec *control.Spec, v tonelab.Value) {
	switch spec.Kind {
	case tonelab.Checkbox:
		spec.Checked = v.Scalar != 0 && !math.IsNaN(v.Scalar)
	case tonelab.Number:
		spec.Text = control.FormatValue(v.Scalar)
	case tonelab.Range:
		if spec.InRange(v.Scalar) {
			spec.Initial = v.Scalar
			spec.HasInitial = true
		}
	case tonelab.Choice:
		idx := int(v.Scalar)
		if v.Scalar >= 0 && float64(idx) == v.Scalar && idx < len(spec.Choices) {
			spec.Selected = idx
		}
	case tonelab.Color:
		spec.Hex = control.LinearToHex(v.RGB)
	}
}
