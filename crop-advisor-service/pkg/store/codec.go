/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"cropadvisor/crop-advisor-service/pkg/model"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type codec struct {
	name      string
	marshal   func(v interface{}) ([]byte, error)
	unmarshal func(data []byte, v interface{}) error
}

func marshalIndentJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

var yamlCodec = codec{name: "yaml", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}

// codecs is keyed by lower-case file extension. CBOR reads the json tags of
// the envelope, so all three formats share one field naming.
var codecs = map[string]codec{
	".cbor": {name: "cbor", marshal: cbor.Marshal, unmarshal: cbor.Unmarshal},
	".json": {name: "json", marshal: marshalIndentJSON, unmarshal: json.Unmarshal},
	".yaml": yamlCodec,
	".yml":  yamlCodec,
}

func codecFor(path string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, errors.Errorf("unsupported artifact format %q for %s, expected .cbor, .json, .yaml or .yml", ext, path)
	}
	return c, nil
}

// ReadEnvelope decodes the artifact at path using the codec its extension selects.
func ReadEnvelope(path string) (*model.ArtifactEnvelope, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("artifact %s is empty", path)
	}
	var envelope model.ArtifactEnvelope
	if err := c.unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s artifact %s", c.name, path)
	}
	if envelope.Kind == "" {
		return nil, errors.Errorf("artifact %s has no kind", path)
	}
	return &envelope, nil
}

// WriteEnvelope encodes envelope into path, the format again following the extension.
func WriteEnvelope(path string, envelope *model.ArtifactEnvelope) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := c.marshal(envelope)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s artifact", c.name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write artifact %s", path)
	}
	return nil
}
