package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cropErrors "cropadvisor/common/errors"
	"cropadvisor/crop-advisor-service/pkg/model"
	"cropadvisor/crop-advisor-service/pkg/store"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = "../../res/configuration.toml"

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func predictArgs(values ...string) []string {
	names := []string{"Nitrogen", "Phosporus", "Potassium", "Temperature", "Humidity", "Ph", "Rainfall"}
	args := []string{"predict", "--config", sampleConfig}
	for i, v := range values {
		args = append(args, "--"+names[i], v)
	}
	return args
}

func TestPredictCommand_SampleArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"rice", []string{"90", "42", "43", "20.8", "82.0", "6.5", "202.9"}, "Rice"},
		{"chickpea", []string{"40", "68", "80", "18.9", "16.9", "7.3", "80"}, "Chickpea"},
		{"apple", []string{"21", "134", "200", "22.6", "92.3", "5.9", "112.7"}, "Apple"},
		{"coffee", []string{"101", "28.7", "29.9", "25.5", "58.9", "6.8", "158"}, "Coffee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, predictArgs(tt.values...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+" is the best crop to be cultivated right there\n", out)
		})
	}
}

func TestPredictCommand_InvalidInputExitsWithError(t *testing.T) {
	out, err := execute(t, predictArgs("90", "42", "43", "warm")...)
	assert.ErrorIs(t, err, errPredictionFailed)
	assert.Equal(t, "Invalid number format for Temperature\n", out)

	out, err = execute(t, predictArgs("90", "42")...)
	assert.ErrorIs(t, err, errPredictionFailed)
	assert.Equal(t, "Missing or invalid value for Potassium\n", out)
}

func TestPredictCommand_MissingConfig(t *testing.T) {
	_, err := execute(t, "predict", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")
	var cErr cropErrors.CropError
	require.True(t, errors.As(err, &cErr))
	assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeConfig))
}

func TestServeCommand_FailsOnBrokenArtifacts(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "configuration.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[Service]
Port = 5001

[Artifacts]
MinMaxScalerPath = "missing_minmax.cbor"
StandardScalerPath = "missing_standard.cbor"
ClassifierPath = "missing_classifier.cbor"
`), 0o644))

	err := runServe(context.Background(), configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model artifacts could not be loaded")
	assert.Equal(t, 3, strings.Count(err.Error(), "failed to read artifact"))
	var cErr cropErrors.CropError
	require.True(t, errors.As(err, &cErr))
	assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeArtifactLoad))
}

func TestConvertCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "classifier.json")

	out, err := execute(t, "convert", "../../res/models/classifier.cbor", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote gaussian_nb artifact to "+target)

	envelope, err := store.ReadEnvelope(target)
	require.NoError(t, err)
	assert.Equal(t, model.KindGaussianNB, envelope.Kind)
	assert.Len(t, envelope.Classes, 22)
}

func TestConvertCommand_RejectsInvalidArtifact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(source, []byte(`{"kind":"standard","mean":[0],"scale":[0]}`), 0o644))

	_, err := execute(t, "convert", source, filepath.Join(dir, "broken.cbor"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to convert")
	_, statErr := os.Stat(filepath.Join(dir, "broken.cbor"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = execute(t, "convert", source)
	assert.Error(t, err)
}
