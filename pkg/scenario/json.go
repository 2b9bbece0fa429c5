package scenario

import (
	"encoding/json"
	"fmt"
)

// The editing surface encodes Rotation and Component as internally tagged
// objects: the variant's fields plus a "type" discriminator, e.g.
// {"type":"fixed","startAzimuth":0,...}. Platform carries the custom
// marshalling for both sums so the variant structs themselves stay plain.

type platformJSON struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	MotionPath MotionPath      `json:"motionPath"`
	Rotation   json.RawMessage `json:"rotation"`
	Component  json.RawMessage `json:"component"`
}

type variantTag struct {
	Type string `json:"type"`
}

// marshalTagged marshals v and splices the "type" discriminator into the
// resulting object.
func marshalTagged(tag string, v any) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) == 2 { // "{}"
		return json.RawMessage(fmt.Sprintf(`{"type":%q}`, tag)), nil
	}
	out := make([]byte, 0, len(body)+len(tag)+11)
	out = append(out, fmt.Sprintf(`{"type":%q,`, tag)...)
	out = append(out, body[1:]...)
	return out, nil
}

// MarshalJSON implements the tagged-variant encoding for Rotation and
// Component.
func (p Platform) MarshalJSON() ([]byte, error) {
	rot := p.Rotation
	if rot == nil {
		rot = FixedRotation{}
	}
	rawRot, err := marshalTagged(rot.rotationTag(), rot)
	if err != nil {
		return nil, fmt.Errorf("marshalling rotation of platform %q: %w", p.Name, err)
	}

	comp := p.Component
	if comp == nil {
		comp = NoComponent{}
	}
	rawComp, err := marshalTagged(comp.componentTag(), comp)
	if err != nil {
		return nil, fmt.Errorf("marshalling component of platform %q: %w", p.Name, err)
	}

	return json.Marshal(platformJSON{
		ID:         p.ID,
		Type:       p.Type,
		Name:       p.Name,
		MotionPath: p.MotionPath,
		Rotation:   rawRot,
		Component:  rawComp,
	})
}

// UnmarshalJSON decodes the tagged-variant encoding, rejecting unknown tags.
func (p *Platform) UnmarshalJSON(data []byte) error {
	var pj platformJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	p.ID = pj.ID
	p.Type = pj.Type
	p.Name = pj.Name
	p.MotionPath = pj.MotionPath

	rot, err := unmarshalRotation(pj.Rotation)
	if err != nil {
		return fmt.Errorf("platform %q: %w", pj.Name, err)
	}
	p.Rotation = rot

	comp, err := unmarshalComponent(pj.Component)
	if err != nil {
		return fmt.Errorf("platform %q: %w", pj.Name, err)
	}
	p.Component = comp
	return nil
}

func unmarshalRotation(data json.RawMessage) (Rotation, error) {
	if len(data) == 0 {
		return FixedRotation{}, nil
	}
	var tag variantTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("reading rotation tag: %w", err)
	}
	switch tag.Type {
	case "fixed":
		var r FixedRotation
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decoding fixed rotation: %w", err)
		}
		return r, nil
	case "path":
		var r RotationPath
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decoding rotation path: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown rotation type %q", tag.Type)
	}
}

func unmarshalComponent(data json.RawMessage) (Component, error) {
	if len(data) == 0 {
		return NoComponent{}, nil
	}
	var tag variantTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("reading component tag: %w", err)
	}
	switch tag.Type {
	case "none":
		return NoComponent{}, nil
	case "monostatic":
		var c Monostatic
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding monostatic component: %w", err)
		}
		return c, nil
	case "transmitter":
		var c Transmitter
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding transmitter component: %w", err)
		}
		return c, nil
	case "receiver":
		var c Receiver
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding receiver component: %w", err)
		}
		return c, nil
	case "target":
		var c Target
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding target component: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown component type %q", tag.Type)
	}
}
