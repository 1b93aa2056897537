package image

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Steviegt6/TerraWeave/internal/il"
)

// The YAML form is for authoring small images by hand:
//
//	name: Terraria
//	types:
//	  - namespace: Terraria
//	    name: Main
//	    base: System.Object
//	    fields:
//	      - {name: gameMenu, type: System.Boolean, attributes: 0x16}
//	    methods:
//	      - name: DrawMenu
//	        returns: System.Void
//	        params: [{name: gameTime, type: Microsoft.Xna.Framework.GameTime}]
//	        body:
//	          - ldarg.0
//	          - ldstr "Terraria"
//	          - ret
//	    nested:
//	      - name: Scene

type yamlImage struct {
	Name  string     `yaml:"name"`
	MVID  string     `yaml:"mvid,omitempty"`
	Types []yamlType `yaml:"types,omitempty"`
}

type yamlType struct {
	Namespace  string       `yaml:"namespace,omitempty"`
	Name       string       `yaml:"name"`
	Attributes uint32       `yaml:"attributes,omitempty"`
	Base       string       `yaml:"base,omitempty"`
	Fields     []yamlField  `yaml:"fields,omitempty"`
	Methods    []yamlMethod `yaml:"methods,omitempty"`
	Nested     []yamlType   `yaml:"nested,omitempty"`
}

type yamlField struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Attributes uint16 `yaml:"attributes,omitempty"`
}

type yamlParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlMethod struct {
	Name       string      `yaml:"name"`
	Returns    string      `yaml:"returns"`
	Attributes uint16      `yaml:"attributes,omitempty"`
	Params     []yamlParam `yaml:"params,omitempty"`
	NoBody     bool        `yaml:"nobody,omitempty"`
	Locals     []string    `yaml:"locals,omitempty"`
	Body       []string    `yaml:"body,omitempty"`
}

// DecodeYAML parses the YAML image form. A missing mvid is derived from the
// image name so the same document always yields the same id.
func DecodeYAML(data []byte) (*Image, error) {
	var doc yamlImage
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	im := New(doc.Name)
	if doc.MVID != "" {
		id, err := uuid.Parse(doc.MVID)
		if err != nil {
			return nil, fmt.Errorf("mvid: %w", err)
		}
		im.MVID = id
	} else {
		im.MVID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.Name))
	}

	for _, yt := range doc.Types {
		t, err := yt.build()
		if err != nil {
			return nil, err
		}
		if err := im.AddType(t); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// EncodeYAML writes im in the YAML image form.
func (im *Image) EncodeYAML(w io.Writer) error {
	doc := yamlImage{Name: im.Name, MVID: im.MVID.String()}
	for _, t := range im.types {
		doc.Types = append(doc.Types, toYAMLType(t))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func (yt yamlType) build() (*Type, error) {
	t := NewType(yt.Namespace, yt.Name)
	t.Attributes = TypeAttributes(yt.Attributes)
	t.BaseType = yt.Base
	for _, f := range yt.Fields {
		t.Fields = append(t.Fields, Field{Name: f.Name, FieldType: f.Type, Attributes: FieldAttributes(f.Attributes)})
	}

	for _, ym := range yt.Methods {
		m := &Method{Name: ym.Name, ReturnType: ym.Returns, Attributes: MethodAttributes(ym.Attributes)}
		for _, p := range ym.Params {
			m.Parameters = append(m.Parameters, Parameter{Name: p.Name, Type: p.Type})
		}
		if !ym.NoBody {
			body, err := il.ParseStream(ym.Body)
			if err != nil {
				return nil, fmt.Errorf("%s::%s: %w", t.FullName(), ym.Name, err)
			}
			m.Body = &Body{Locals: ym.Locals, Instructions: body}
		}
		if err := t.AddMethod(m); err != nil {
			return nil, err
		}
	}

	for _, yn := range yt.Nested {
		n, err := yn.build()
		if err != nil {
			return nil, err
		}
		if err := t.AddNestedType(n); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func toYAMLType(t *Type) yamlType {
	yt := yamlType{
		Namespace:  t.Namespace,
		Name:       t.Name,
		Attributes: uint32(t.Attributes),
		Base:       t.BaseType,
	}
	for _, f := range t.Fields {
		yt.Fields = append(yt.Fields, yamlField{Name: f.Name, Type: f.FieldType, Attributes: uint16(f.Attributes)})
	}
	for _, m := range t.methods {
		ym := yamlMethod{Name: m.Name, Returns: m.ReturnType, Attributes: uint16(m.Attributes)}
		for _, p := range m.Parameters {
			ym.Params = append(ym.Params, yamlParam{Name: p.Name, Type: p.Type})
		}
		if m.Body == nil {
			ym.NoBody = true
		} else {
			ym.Locals = m.Body.Locals
			for _, in := range m.Body.Instructions {
				ym.Body = append(ym.Body, in.String())
			}
		}
		yt.Methods = append(yt.Methods, ym)
	}
	for _, n := range t.nested {
		yt.Nested = append(yt.Nested, toYAMLType(n))
	}
	return yt
}
