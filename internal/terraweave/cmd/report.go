package cmd

import (
	"fmt"
	"strings"

	"github.com/Steviegt6/TerraWeave/internal/il"
	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// PatchJSON is the --json form of a patch.
type PatchJSON struct {
	Path    string       `json:"path"`
	Summary SummaryJSON  `json:"summary"`
	Records []RecordJSON `json:"records"`
}

// SummaryJSON counts records by kind.
type SummaryJSON struct {
	TypeInjects       int `json:"typeInjects"`
	NestedTypeInjects int `json:"nestedTypeInjects"`
	MethodModifies    int `json:"methodModifies"`
	Changes           int `json:"changes"`
}

// RecordJSON describes one record.
type RecordJSON struct {
	Index         int          `json:"index"`
	Kind          string       `json:"kind"`
	Target        string       `json:"target"`
	DeclaringType string       `json:"declaringType,omitempty"`
	Type          *TypeJSON    `json:"type,omitempty"`
	Changes       []ChangeJSON `json:"changes,omitempty"`
}

// TypeJSON describes an injected type.
type TypeJSON struct {
	Name     string      `json:"name"`
	BaseType string      `json:"baseType,omitempty"`
	Fields   []string    `json:"fields,omitempty"`
	Methods  []string    `json:"methods,omitempty"`
	Nested   []*TypeJSON `json:"nested,omitempty"`
}

// ChangeJSON describes one method change.
type ChangeJSON struct {
	Action      string `json:"action"`
	Index       int    `json:"index"`
	Instruction string `json:"instruction,omitempty"`
}

func summarize(records []patch.Record) SummaryJSON {
	var s SummaryJSON
	for _, rec := range records {
		switch r := rec.(type) {
		case patch.TypeInject:
			s.TypeInjects++
		case patch.NestedTypeInject:
			s.NestedTypeInjects++
		case patch.MethodModify:
			s.MethodModifies++
			s.Changes += len(r.Changes)
		}
	}
	return s
}

func toPatchJSON(path string, records []patch.Record) PatchJSON {
	out := PatchJSON{Path: path, Summary: summarize(records), Records: []RecordJSON{}}
	for i, rec := range records {
		rj := RecordJSON{Index: i, Kind: rec.Kind().String(), Target: rec.Target()}
		switch r := rec.(type) {
		case patch.TypeInject:
			rj.Type = toTypeJSON(r.Type)
		case patch.NestedTypeInject:
			rj.DeclaringType = r.DeclaringType
			rj.Type = toTypeJSON(r.Type)
		case patch.MethodModify:
			for _, c := range r.Changes {
				cj := ChangeJSON{Action: c.Action.String(), Index: c.Index}
				if c.Action != patch.ActionRemove {
					cj.Instruction = c.Instruction.String()
				}
				rj.Changes = append(rj.Changes, cj)
			}
		}
		out.Records = append(out.Records, rj)
	}
	return out
}

func toTypeJSON(t *image.Type) *TypeJSON {
	tj := &TypeJSON{Name: t.FullName(), BaseType: t.BaseType}
	for _, f := range t.Fields {
		tj.Fields = append(tj.Fields, f.FieldType+" "+f.Name)
	}
	for _, m := range t.Methods() {
		tj.Methods = append(tj.Methods, m.FullName())
	}
	for _, n := range t.NestedTypes() {
		tj.Nested = append(tj.Nested, toTypeJSON(n))
	}
	return tj
}

// markdownReport renders the summary inspect prints by default.
func markdownReport(path string, records []patch.Record) string {
	s := summarize(records)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", path)
	sb.WriteString("| Record | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| TypeInject | %d |\n", s.TypeInjects)
	fmt.Fprintf(&sb, "| NestedTypeInject | %d |\n", s.NestedTypeInjects)
	fmt.Fprintf(&sb, "| MethodModify | %d (%d changes) |\n", s.MethodModifies, s.Changes)

	for i, rec := range records {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, rec.Kind())
		sb.WriteString(recordMarkdown(rec))
	}
	return sb.String()
}

func recordMarkdown(rec patch.Record) string {
	var sb strings.Builder
	switch r := rec.(type) {
	case patch.TypeInject:
		writeTypeMarkdown(&sb, r.Type, "")
	case patch.NestedTypeInject:
		fmt.Fprintf(&sb, "Declared in `%s`\n\n", r.DeclaringType)
		writeTypeMarkdown(&sb, r.Type, "")
	case patch.MethodModify:
		fmt.Fprintf(&sb, "`%s`\n\n```\n", r.Signature)
		for _, c := range r.Changes {
			sb.WriteString(changeLine(c))
			sb.WriteByte('\n')
		}
		sb.WriteString("```\n")
	}
	return sb.String()
}

func writeTypeMarkdown(sb *strings.Builder, t *image.Type, indent string) {
	fmt.Fprintf(sb, "%s- **%s**", indent, t.Name)
	if t.BaseType != "" {
		fmt.Fprintf(sb, " : `%s`", t.BaseType)
	}
	sb.WriteByte('\n')
	for _, f := range t.Fields {
		fmt.Fprintf(sb, "%s  - field `%s %s`\n", indent, f.FieldType, f.Name)
	}
	for _, m := range t.Methods() {
		n := 0
		if m.Body != nil {
			n = m.Body.Len()
		}
		fmt.Fprintf(sb, "%s  - method `%s` (%d instructions)\n", indent, m.FullName(), n)
	}
	for _, nested := range t.NestedTypes() {
		writeTypeMarkdown(sb, nested, indent+"  ")
	}
}

func changeLine(c patch.MethodChange) string {
	switch c.Action {
	case patch.ActionInsert:
		return fmt.Sprintf("+ %s: %s", il.Label(c.Index), c.Instruction)
	case patch.ActionModify:
		return fmt.Sprintf("~ %s: %s", il.Label(c.Index), c.Instruction)
	default:
		return fmt.Sprintf("- %s", il.Label(c.Index))
	}
}

// listing renders the IL carried by the patch: every change of every
// MethodModify and the bodies of injected methods.
func listing(records []patch.Record) string {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(recordListing(rec))
	}
	return sb.String()
}

func recordListing(rec patch.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s %s\n", rec.Kind(), rec.Target())
	switch r := rec.(type) {
	case patch.TypeInject:
		writeTypeListing(&sb, r.Type)
	case patch.NestedTypeInject:
		writeTypeListing(&sb, r.Type)
	case patch.MethodModify:
		for _, c := range r.Changes {
			sb.WriteString(changeLine(c))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func writeTypeListing(sb *strings.Builder, t *image.Type) {
	for _, m := range t.Methods() {
		fmt.Fprintf(sb, "// %s\n", m.FullName())
		if m.Body == nil {
			sb.WriteString("// (no body)\n")
			continue
		}
		for i, in := range m.Body.Instructions {
			fmt.Fprintf(sb, "%s: %s\n", il.Label(i), in)
		}
	}
	for _, n := range t.NestedTypes() {
		writeTypeListing(sb, n)
	}
}
