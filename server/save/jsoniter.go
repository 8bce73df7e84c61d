// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"fmt"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// Make sure encoders are registered first
var json = func() jsoniter.API {
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(Modification{}).String(), encodeModification, func(unsafe.Pointer) bool { return false })

	return jsoniter.Config{
		IndentionStep:                 0,
		MarshalFloatWith6Digits:       false, // world config must round trip exactly
		EscapeHTML:                    false,
		SortMapKeys:                   true,
		UseNumber:                     false,
		DisallowUnknownFields:         false,
		TagKey:                        "json",
		OnlyTaggedField:               false,
		ValidateJsonRawMessage:        false,
		ObjectFieldMustBeSimpleString: true,
		CaseSensitive:                 true,
	}.Froze()
}()

// There can be many thousands of modifications so skip reflection.
func encodeModification(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	m := (*Modification)(ptr)
	stream.WriteObjectStart()
	stream.WriteObjectField("x")
	stream.WriteInt(m.X)
	stream.WriteMore()
	stream.WriteObjectField("z")
	stream.WriteInt(m.Z)
	stream.WriteMore()
	stream.WriteObjectField("height")
	stream.WriteInt(m.Height)
	if m.Count > 1 {
		stream.WriteMore()
		stream.WriteObjectField("count")
		stream.WriteInt(m.Count)
	}
	stream.WriteObjectEnd()
}

// Marshal encodes a document as JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// legacyDocument accepts the version 1 name for the modification list.
type legacyDocument struct {
	Document
	Mods []Modification `json:"mods"`
}

// Unmarshal validates JSON against the document schema and decodes it. It does not
// migrate; see Deserialize.
func Unmarshal(data []byte) (Document, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc.Modifications == nil {
		doc.Modifications = doc.Mods
	}
	return doc.Document, nil
}
