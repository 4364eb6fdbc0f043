// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializer values for the persisted domain types. There is a single
// persisted record shape, so the serializers are written by hand in the
// same serializer-value style code generation would emit.
var (
	// IDMUS serializes ID values.
	IDMUS = idMUS{}
	// SourceMUS serializes Source tags.
	SourceMUS = sourceMUS{}
	// ProjectRecordMUS serializes ProjectRecord values.
	ProjectRecordMUS = projectRecordMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

type sourceMUS struct{}

func (s sourceMUS) Marshal(v Source, bs []byte) int {
	return ord.String.Marshal(string(v), bs)
}

func (s sourceMUS) Unmarshal(bs []byte) (Source, int, error) {
	v, n, err := ord.String.Unmarshal(bs)
	return Source(v), n, err
}

func (s sourceMUS) Size(v Source) int {
	return ord.String.Size(string(v))
}

// optStringMUS encodes an optional string as a presence flag followed by the
// value when present. Absent fields cost a single byte on disk.
type optStringMUS struct{}

var optString = optStringMUS{}

func (s optStringMUS) Marshal(v *string, bs []byte) (n int) {
	n = ord.Bool.Marshal(v != nil, bs)
	if v != nil {
		n += ord.String.Marshal(*v, bs[n:])
	}
	return n
}

func (s optStringMUS) Unmarshal(bs []byte) (*string, int, error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	v, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return &v, n, nil
}

func (s optStringMUS) Size(v *string) int {
	size := ord.Bool.Size(v != nil)
	if v != nil {
		size += ord.String.Size(*v)
	}
	return size
}

// stringSliceMUS encodes a length-prefixed slice of strings.
type stringSliceMUS struct{}

var stringSlice = stringSliceMUS{}

func (s stringSliceMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(len(v)), bs)
	for _, el := range v {
		n += ord.String.Marshal(el, bs[n:])
	}
	return n
}

func (s stringSliceMUS) Unmarshal(bs []byte) ([]string, int, error) {
	length, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v := make([]string, 0, length)
	for i := uint64(0); i < length; i++ {
		el, n1, err := ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v = append(v, el)
	}
	return v, n, nil
}

func (s stringSliceMUS) Size(v []string) int {
	size := varint.Uint64.Size(uint64(len(v)))
	for _, el := range v {
		size += ord.String.Size(el)
	}
	return size
}

// vectorMUS encodes a length-prefixed embedding vector. Elements are stored
// as their IEEE-754 bit patterns.
type vectorMUS struct{}

var vector = vectorMUS{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(len(v)), bs)
	for _, el := range v {
		n += varint.Uint32.Marshal(math.Float32bits(el), bs[n:])
	}
	return n
}

func (s vectorMUS) Unmarshal(bs []byte) ([]float32, int, error) {
	length, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v := make([]float32, 0, length)
	for i := uint64(0); i < length; i++ {
		bits, n1, err := varint.Uint32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v = append(v, math.Float32frombits(bits))
	}
	return v, n, nil
}

func (s vectorMUS) Size(v []float32) int {
	size := varint.Uint64.Size(uint64(len(v)))
	for _, el := range v {
		size += varint.Uint32.Size(math.Float32bits(el))
	}
	return size
}

// timeMUS encodes timestamps as unix microseconds.
type timeMUS struct{}

var timestamp = timeMUS{}

func (s timeMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (s timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

type projectRecordMUS struct{}

func (s projectRecordMUS) Marshal(v ProjectRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += optString.Marshal(v.ShortDescription, bs[n:])
	n += optString.Marshal(v.LongDescription, bs[n:])
	n += ord.String.Marshal(v.CanonicalURL, bs[n:])
	n += SourceMUS.Marshal(v.Source, bs[n:])
	n += stringSlice.Marshal(v.Tags, bs[n:])
	n += optString.Marshal(v.Batch, bs[n:])
	n += optString.Marshal(v.Founded, bs[n:])
	n += optString.Marshal(v.TeamSize, bs[n:])
	n += optString.Marshal(v.Status, bs[n:])
	n += optString.Marshal(v.PrimaryPartner, bs[n:])
	n += optString.Marshal(v.Location, bs[n:])
	n += vector.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.EmbeddingModel, bs[n:])
	n += timestamp.Marshal(v.IngestedAt, bs[n:])
	return n
}

func (s projectRecordMUS) Unmarshal(bs []byte) (v ProjectRecord, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ShortDescription, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.LongDescription, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CanonicalURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Source, n1, err = SourceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tags, n1, err = stringSlice.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Batch, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Founded, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TeamSize, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Status, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PrimaryPartner, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Location, n1, err = optString.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vector.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.EmbeddingModel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.IngestedAt, n1, err = timestamp.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s projectRecordMUS) Size(v ProjectRecord) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Name) +
		optString.Size(v.ShortDescription) +
		optString.Size(v.LongDescription) +
		ord.String.Size(v.CanonicalURL) +
		SourceMUS.Size(v.Source) +
		stringSlice.Size(v.Tags) +
		optString.Size(v.Batch) +
		optString.Size(v.Founded) +
		optString.Size(v.TeamSize) +
		optString.Size(v.Status) +
		optString.Size(v.PrimaryPartner) +
		optString.Size(v.Location) +
		vector.Size(v.Vector) +
		ord.String.Size(v.EmbeddingModel) +
		timestamp.Size(v.IngestedAt)
}
