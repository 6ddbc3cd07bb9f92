/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package crops

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const UnknownCrop = "Unknown"

// Crop is one entry of the label table, as served by the crops endpoint.
type Crop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LabelTable maps classifier class ids to crop names. It is read-only after
// construction and safe for concurrent use.
type LabelTable struct {
	names map[int]string
}

var defaultNames = map[int]string{
	1:  "Rice",
	2:  "Maize",
	3:  "Jute",
	4:  "Cotton",
	5:  "Coconut",
	6:  "Papaya",
	7:  "Orange",
	8:  "Apple",
	9:  "Muskmelon",
	10: "Watermelon",
	11: "Grapes",
	12: "Mango",
	13: "Banana",
	14: "Pomegranate",
	15: "Lentil",
	16: "Blackgram",
	17: "Mungbean",
	18: "Mothbeans",
	19: "Pigeonpeas",
	20: "Kidneybeans",
	21: "Chickpea",
	22: "Coffee",
}

// NewLabelTable returns the 22-crop table the classifier was trained against.
func NewLabelTable() *LabelTable {
	return NewLabelTableFrom(defaultNames)
}

// NewLabelTableFrom copies names so later changes to the map do not leak in.
func NewLabelTableFrom(names map[int]string) *LabelTable {
	return &LabelTable{names: maps.Clone(names)}
}

// Lookup returns the crop name for id, or UnknownCrop.
func (t *LabelTable) Lookup(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return UnknownCrop
}

func (t *LabelTable) Len() int {
	return len(t.names)
}

// List returns all entries ordered by id.
func (t *LabelTable) List() []Crop {
	ids := make([]int, 0, len(t.names))
	for id := range t.names {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Crop, 0, len(ids))
	for _, id := range ids {
		out = append(out, Crop{ID: id, Name: t.names[id]})
	}
	return out
}

// Names returns the crop names ordered by id.
func (t *LabelTable) Names() []string {
	list := t.List()
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}
	return names
}
