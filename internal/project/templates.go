package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// ErrEmptyRegistry is returned when a template is requested with no profiles registered.
var ErrEmptyRegistry = errors.New("no profiles registered")

// layerColors are the ACI colors of template layers, per member type.
var layerColors = map[model.MemberType]color.ColorNumber{
	model.Diagonal: color.Red,   // 1
	model.Montante: color.Green, // 3
	model.Banzo:    color.Blue,  // 5
}

// LayerColor returns the template color of a member type.
func LayerColor(t model.MemberType) color.ColorNumber {
	if c, ok := layerColors[t]; ok {
		return c
	}
	return dxf.DefaultColor
}

// DefaultTemplatePath returns the default file path for a generated template,
// ~/.trusscut/template.dxf.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "template.dxf")
}

// GenerateTemplateDXF writes an empty drawing containing one layer per
// registered profile and member type, named TYPE_PROFILE. It returns the
// layer names that were created.
func GenerateTemplateDXF(path string, reg model.ProfileRegistry) ([]string, error) {
	if len(reg) == 0 {
		return nil, ErrEmptyRegistry
	}

	d := dxf.NewDrawing()
	var layers []string
	for _, name := range reg.Names() {
		for _, t := range reg.Types(name) {
			layer := model.LayerName(t, name)
			if _, err := d.AddLayer(layer, LayerColor(t), dxf.DefaultLineType, false); err != nil {
				return nil, fmt.Errorf("add layer %s: %w", layer, err)
			}
			layers = append(layers, layer)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := d.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return layers, nil
}
