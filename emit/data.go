package emit

import (
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"
	yaml "gopkg.in/yaml.v3"

	"cstrgen/encoder"
)

// Record is data representation of a single declaration.
type Record struct {
	Name        string `yaml:"name" ion:"name"`
	Text        string `yaml:"text" ion:"text"`
	ElementType string `yaml:"element_type" ion:"element_type"`
	Length      int    `yaml:"length" ion:"length"`
	Elements    []int  `yaml:"elements,flow" ion:"elements"`
	Immutable   bool   `yaml:"immutable" ion:"immutable"`
	Visibility  string `yaml:"visibility" ion:"visibility"`
	NoMangle    bool   `yaml:"no_mangle" ion:"no_mangle"`
	// markers requesting compiler to stay quiet
	SuppressUnused bool   `yaml:"suppress_unused" ion:"suppress_unused"`
	SuppressNaming bool   `yaml:"suppress_naming" ion:"suppress_naming"`
	Location       string `yaml:"location,omitempty" ion:"location"`
}

// Document is data representation of a unit.
type Document struct {
	Generator    string   `yaml:"generator" ion:"generator"`
	Source       string   `yaml:"source,omitempty" ion:"source"`
	Declarations []Record `yaml:"declarations" ion:"declarations"`
}

func newDocument(u *Unit, generator string) *Document {
	doc := &Document{
		Generator:    generator,
		Source:       u.Source,
		Declarations: make([]Record, 0, len(u.Declarations)),
	}
	for _, d := range u.Declarations {
		doc.Declarations = append(doc.Declarations, newRecord(d))
	}
	return doc
}

func newRecord(d *encoder.Declaration) Record {
	elements := make([]int, len(d.Elements))
	for i, v := range d.Elements {
		elements[i] = int(v)
	}
	r := Record{
		Name:           d.Name,
		Text:           d.Text,
		ElementType:    d.ElementType,
		Length:         d.Length,
		Elements:       elements,
		Immutable:      d.Immutable,
		Visibility:     d.Visibility.String(),
		NoMangle:       d.NoMangle,
		SuppressUnused: d.SuppressUnused,
		SuppressNaming: d.SuppressNaming,
	}
	if !d.Span.IsZero() {
		r.Location = d.Span.String()
	}
	return r
}

type yamlRenderer struct {
	generator string
}

func (r *yamlRenderer) Render(w io.Writer, u *Unit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(u, r.generator)); err != nil {
		return fmt.Errorf("unable to encode yaml: %w", err)
	}
	return enc.Close()
}

type ionRenderer struct {
	generator string
}

func (r *ionRenderer) Render(w io.Writer, u *Unit) error {
	data, err := ion.MarshalBinary(newDocument(u, r.generator))
	if err != nil {
		return fmt.Errorf("unable to encode ion: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeIon reads document produced by ion renderer.
func DecodeIon(data []byte) (*Document, error) {
	var doc Document
	if err := ion.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode ion: %w", err)
	}
	return &doc, nil
}
