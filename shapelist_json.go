package lisa

import (
	"encoding/json"
	"fmt"
)

// shapeRecord is the field-tagged JSON form of a single shape. Only the
// fields of the record's type are set.
type shapeRecord struct {
	Type   string      `json:"type"`
	X      float64     `json:"x,omitempty"`
	Y      float64     `json:"y,omitempty"`
	Rad    float64     `json:"rad,omitempty"`
	Width  float64     `json:"width,omitempty"`
	Height float64     `json:"height,omitempty"`
	X1     float64     `json:"x1,omitempty"`
	Y1     float64     `json:"y1,omitempty"`
	X2     float64     `json:"x2,omitempty"`
	Y2     float64     `json:"y2,omitempty"`
	X3     float64     `json:"x3,omitempty"`
	Y3     float64     `json:"y3,omitempty"`
	Color  colorRecord `json:"color"`
}

type colorRecord struct {
	R       uint8   `json:"r"`
	G       uint8   `json:"g"`
	B       uint8   `json:"b"`
	Opacity float64 `json:"opacity"`
}

func toRecord(s Shape) shapeRecord {
	c := s.Paint()
	rec := shapeRecord{
		Type:  s.Kind().String(),
		Color: colorRecord{R: c.R, G: c.G, B: c.B, Opacity: c.Opacity},
	}
	switch v := s.(type) {
	case Circle:
		rec.X, rec.Y, rec.Rad = v.X, v.Y, v.Rad
	case Rect:
		rec.X, rec.Y, rec.Width, rec.Height = v.X, v.Y, v.Width, v.Height
	case Triangle:
		rec.X1, rec.Y1, rec.X2, rec.Y2, rec.X3, rec.Y3 = v.X1, v.Y1, v.X2, v.Y2, v.X3, v.Y3
	}
	return rec
}

func (rec shapeRecord) shape() (Shape, error) {
	kind, err := ParseKind(rec.Type)
	if err != nil {
		return nil, err
	}
	c := Color{R: rec.Color.R, G: rec.Color.G, B: rec.Color.B, Opacity: rec.Color.Opacity}
	switch kind {
	case KindCircle:
		return Circle{X: rec.X, Y: rec.Y, Rad: rec.Rad, Color: c}, nil
	case KindRect:
		return Rect{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height, Color: c}, nil
	case KindTriangle:
		return Triangle{X1: rec.X1, Y1: rec.Y1, X2: rec.X2, Y2: rec.Y2, X3: rec.X3, Y3: rec.Y3, Color: c}, nil
	}
	return nil, fmt.Errorf("lisa: unhandled shape kind %v", kind)
}

// MarshalJSON encodes l as an array of field-tagged shape records.
func (l ShapeList) MarshalJSON() ([]byte, error) {
	recs := make([]shapeRecord, len(l))
	for i, s := range l {
		recs[i] = toRecord(s)
	}
	return json.Marshal(recs)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (l *ShapeList) UnmarshalJSON(data []byte) error {
	var recs []shapeRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}
	out := make(ShapeList, len(recs))
	for i, rec := range recs {
		s, err := rec.shape()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		out[i] = s
	}
	*l = out
	return nil
}
