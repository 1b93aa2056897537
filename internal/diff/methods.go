package diff

import (
	"github.com/Steviegt6/TerraWeave/internal/il"
	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// MethodChanges scans base and mod side by side and describes how mod
// differs. It assumes every mismatch spans exactly one instruction: at a
// mismatch at i it emits one change and resumes at i+2.
//
//   - base[i] == mod[i+1]: mod[i] was inserted.
//   - same opcode: mod[i] replaces base[i].
//   - otherwise: base[i] was removed.
//
// The scan stops at the end of the shorter stream, so differences in a
// longer tail are not reported. Multi-instruction edits are not modelled.
func MethodChanges(base, mod il.Stream) []patch.MethodChange {
	var changes []patch.MethodChange
	for i := 0; i < len(base) && i < len(mod); {
		if base[i].Equal(mod[i]) {
			i++
			continue
		}
		switch {
		case i+1 < len(mod) && base[i].Equal(mod[i+1]):
			changes = append(changes, patch.Insert(i, mod[i].Clone()))
		case base[i].OpCode == mod[i].OpCode:
			changes = append(changes, patch.Modify(i, mod[i].Clone()))
		default:
			changes = append(changes, patch.Remove(i))
		}
		i += 2
	}
	return changes
}

// ModifiedMethods returns a MethodModify for every method present in both
// images, by signature, whose body scan finds changes. Methods without a
// body on either side are skipped.
func ModifiedMethods(base, mod *image.Image) []patch.MethodModify {
	var out []patch.MethodModify
	for _, mm := range mod.Methods() {
		bm := base.Method(mm.FullName())
		if bm == nil || !bm.HasBody() || !mm.HasBody() {
			continue
		}
		changes := MethodChanges(bm.Body.Instructions, mm.Body.Instructions)
		if len(changes) == 0 {
			continue
		}
		out = append(out, patch.MethodModify{Signature: mm.FullName(), Changes: changes})
	}
	return out
}

// MethodPass emits a MethodModify for every edited method.
type MethodPass struct{}

func (MethodPass) Name() string { return "methods" }

func (MethodPass) Run(base, mod *image.Image, records []patch.Record) []patch.Record {
	for _, m := range ModifiedMethods(base, mod) {
		records = append(records, m)
	}
	return records
}
