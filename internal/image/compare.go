package image

import "fmt"

// Compare lists the differences between two images over types, fields,
// methods and bodies. Image names and MVIDs are not compared. At most limit
// differences are returned; limit <= 0 means no limit.
func Compare(got, want *Image, limit int) []string {
	c := comparer{limit: limit}

	for _, wt := range want.AllTypes() {
		gt := got.Type(wt.FullName())
		if gt == nil {
			c.add("type %s: missing", wt.FullName())
			continue
		}
		c.compareType(gt, wt)
	}
	for _, gt := range got.AllTypes() {
		if want.Type(gt.FullName()) == nil {
			c.add("type %s: unexpected", gt.FullName())
		}
	}
	return c.diffs
}

type comparer struct {
	limit int
	diffs []string
}

func (c *comparer) full() bool {
	return c.limit > 0 && len(c.diffs) >= c.limit
}

func (c *comparer) add(format string, args ...any) {
	if !c.full() {
		c.diffs = append(c.diffs, fmt.Sprintf(format, args...))
	}
}

func (c *comparer) compareType(got, want *Type) {
	name := want.FullName()
	if got.Attributes != want.Attributes {
		c.add("type %s: attributes %#x, want %#x", name, got.Attributes, want.Attributes)
	}
	if got.BaseType != want.BaseType {
		c.add("type %s: base %q, want %q", name, got.BaseType, want.BaseType)
	}
	if len(got.Fields) != len(want.Fields) {
		c.add("type %s: %d fields, want %d", name, len(got.Fields), len(want.Fields))
	} else {
		for i := range want.Fields {
			if got.Fields[i] != want.Fields[i] {
				c.add("type %s: field %d is %+v, want %+v", name, i, got.Fields[i], want.Fields[i])
			}
		}
	}

	gotMethods := make(map[string]*Method, len(got.methods))
	for _, m := range got.methods {
		gotMethods[m.FullName()] = m
	}
	for _, wm := range want.methods {
		sig := wm.FullName()
		gm, ok := gotMethods[sig]
		if !ok {
			c.add("method %s: missing", sig)
			continue
		}
		delete(gotMethods, sig)
		c.compareMethod(gm, wm)
	}
	for sig := range gotMethods {
		c.add("method %s: unexpected", sig)
	}
}

func (c *comparer) compareMethod(got, want *Method) {
	sig := want.FullName()
	if got.Attributes != want.Attributes {
		c.add("method %s: attributes %#x, want %#x", sig, got.Attributes, want.Attributes)
	}
	if got.HasBody() != want.HasBody() {
		c.add("method %s: has body %v, want %v", sig, got.HasBody(), want.HasBody())
		return
	}
	if !want.HasBody() {
		return
	}
	gb, wb := got.Body.Instructions, want.Body.Instructions
	for i := 0; i < len(gb) && i < len(wb); i++ {
		if !gb[i].Equal(wb[i]) {
			c.add("method %s: instruction %d is %q, want %q", sig, i, gb[i], wb[i])
			return
		}
	}
	if len(gb) != len(wb) {
		c.add("method %s: %d instructions, want %d", sig, len(gb), len(wb))
	}
}
