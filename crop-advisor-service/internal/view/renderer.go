/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package view

import (
	"embed"
	"html/template"
	"io"

	"cropadvisor/crop-advisor-service/pkg/dto"

	"github.com/Masterminds/sprig"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	IndexTemplate = "index.html"
	PageTitle     = "Crop Recommendation"
)

//go:embed templates/*.html
var templateFS embed.FS

type Field struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
}

// Page is the data the index template renders. An empty Result renders no
// result block.
type Page struct {
	Title   string
	Fields  []Field
	Result  string
	IsError bool
	Crops   []string
}

var fieldLabels = map[string][2]string{
	dto.FieldNitrogen:    {"Nitrogen", "Nitrogen ratio in soil"},
	dto.FieldPhosphorus:  {"Phosphorus", "Phosphorus ratio in soil"},
	dto.FieldPotassium:   {"Potassium", "Potassium ratio in soil"},
	dto.FieldTemperature: {"Temperature", "Temperature in °C"},
	dto.FieldHumidity:    {"Humidity", "Relative humidity in %"},
	dto.FieldPh:          {"pH", "Soil pH value"},
	dto.FieldRainfall:    {"Rainfall", "Rainfall in mm"},
}

// NewPage builds the page for a form. A nil result renders the empty form.
func NewPage(form map[string]string, result *dto.PredictionResult, crops []string) Page {
	page := Page{Title: PageTitle, Crops: crops}
	for _, name := range dto.FeatureFields() {
		label := fieldLabels[name]
		page.Fields = append(page.Fields, Field{
			Name:        name,
			Label:       label[0],
			Placeholder: label[1],
			Value:       form[name],
		})
	}
	if result != nil {
		page.Result = result.Text()
		page.IsError = !result.IsSuccess()
	}
	return page
}

// Renderer renders the embedded templates for echo.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New(IndexTemplate).Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse view templates")
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
