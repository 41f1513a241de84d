package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

func TestGenerateTemplateDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "template.dxf")

	layers, err := GenerateTemplateDXF(path, testRegistry(t))
	if err != nil {
		t.Fatalf("GenerateTemplateDXF error: %v", err)
	}

	want := []string{"DIAGONAL_L_50_50_3", "MONTANTE_U_50_25_2_65", "BANZO_U_50_25_2_65"}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("layers = %v, want %v", layers, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template was not written: %v", err)
	}
	for _, layer := range want {
		if !strings.Contains(string(data), layer) {
			t.Errorf("template is missing layer %s", layer)
		}
	}

	// Every template layer classifies back to its profile
	for _, layer := range layers {
		if _, profile, ok := model.ClassifyLayer(layer); !ok || profile == model.StandardProfile {
			t.Errorf("layer %s does not classify to an explicit profile", layer)
		}
	}

	if _, err := dxf.Open(path); err != nil {
		t.Errorf("template is not a readable drawing: %v", err)
	}
}

func TestGenerateTemplateDXF_EmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.dxf")

	_, err := GenerateTemplateDXF(path, model.NewProfileRegistry())
	if !errors.Is(err, ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty registry")
	}
}

func TestLayerColor(t *testing.T) {
	tests := []struct {
		t    model.MemberType
		want color.ColorNumber
	}{
		{model.Diagonal, color.Red},
		{model.Montante, color.Green},
		{model.Banzo, color.Blue},
		{model.MemberType("BRACE"), dxf.DefaultColor},
	}
	for _, tt := range tests {
		if got := LayerColor(tt.t); got != tt.want {
			t.Errorf("LayerColor(%s) = %v, want %v", tt.t, got, tt.want)
		}
	}
}
