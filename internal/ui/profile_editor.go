package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/piwi3910/TrussCut/internal/project"
)

// persistRegistry writes the registry to its default location.
func (a *App) persistRegistry() {
	if err := project.SaveRegistry(a.registryPath, a.registry); err != nil {
		a.logger.Warn("profile registry not saved", "path", a.registryPath, "error", err)
	}
}

func typesText(types []model.MemberType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// showProfileManager opens the window where profiles are registered, removed,
// imported, exported, and turned into a template drawing.
func (a *App) showProfileManager() {
	w := fyne.CurrentApp().NewWindow("Profile Manager")
	w.Resize(fyne.NewSize(720, 520))

	names := a.registry.Names()
	selected := ""

	var list *widget.List
	refresh := func() {
		names = a.registry.Names()
		selected = ""
		list.UnselectAll()
		list.Refresh()
	}

	list = widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("U_50_25_2_65"),
				layout.NewSpacer(),
				widget.NewLabel("DIAGONAL, MONTANTE, BANZO"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			box.Objects[1].(*widget.Label).SetText(names[id])
			box.Objects[3].(*widget.Label).SetText(typesText(a.registry.Types(names[id])))
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		selected = names[id]
	}

	addBtn := widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
		a.showAddProfileDialog(w, refresh)
	})
	removeBtn := widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), func() {
		if selected == "" {
			return
		}
		name := selected
		dialog.ShowConfirm("Remove Profile",
			fmt.Sprintf("Remove profile %q from the registry?", name),
			func(ok bool) {
				if !ok {
					return
				}
				a.history.Push(a.snapshot("Remove Profile"))
				a.registry.Remove(name)
				a.persistRegistry()
				refresh()
			}, w)
	})
	importBtn := widget.NewButtonWithIcon("Import", theme.DownloadIcon(), func() {
		a.importRegistry(w, refresh)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.UploadIcon(), func() {
		a.exportRegistry(w)
	})
	templateBtn := widget.NewButtonWithIcon("Template DXF", theme.DocumentSaveIcon(), func() {
		a.generateTemplate(w)
	})

	buttons := container.NewHBox(addBtn, removeBtn, layout.NewSpacer(), importBtn, exportBtn, templateBtn)
	header := widget.NewLabel("Registered profiles and the member types each may be used for.")

	w.SetContent(container.NewBorder(header, buttons, nil, nil, list))
	w.Show()
}

// showAddProfileDialog collects the name parts of a new profile.
func (a *App) showAddProfileDialog(parent fyne.Window, onDone func()) {
	descEntry := widget.NewEntry()
	descEntry.SetPlaceHolder("U, L, RHS...")
	measureEntries := make([]*widget.Entry, 3)
	for i := range measureEntries {
		measureEntries[i] = widget.NewEntry()
		measureEntries[i].SetPlaceHolder("mm")
	}
	thicknessEntry := widget.NewEntry()
	thicknessEntry.SetPlaceHolder("mm")

	typeChecks := make([]*widget.Check, 0, len(model.AllMemberTypes()))
	typeBox := container.NewHBox()
	for _, t := range model.AllMemberTypes() {
		c := widget.NewCheck(string(t), nil)
		typeChecks = append(typeChecks, c)
		typeBox.Add(c)
	}

	preview := widget.NewLabel("")
	updatePreview := func(string) {
		name, err := model.BuildProfileName(descEntry.Text, entryTexts(measureEntries), thicknessEntry.Text)
		if err != nil {
			preview.SetText("")
			return
		}
		preview.SetText(name)
	}
	descEntry.OnChanged = updatePreview
	thicknessEntry.OnChanged = updatePreview
	for _, e := range measureEntries {
		e.OnChanged = updatePreview
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Description", descEntry),
		widget.NewFormItem("Measure 1", measureEntries[0]),
		widget.NewFormItem("Measure 2", measureEntries[1]),
		widget.NewFormItem("Measure 3", measureEntries[2]),
		widget.NewFormItem("Thickness", thicknessEntry),
		widget.NewFormItem("Used as", typeBox),
		widget.NewFormItem("Name", preview),
	}

	dialog.ShowForm("Add Profile", "Add", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		name, err := model.BuildProfileName(descEntry.Text, entryTexts(measureEntries), thicknessEntry.Text)
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		var types []model.MemberType
		for i, t := range model.AllMemberTypes() {
			if typeChecks[i].Checked {
				types = append(types, t)
			}
		}

		before := a.snapshot("Add Profile")
		if err := a.registry.Add(name, types); err != nil {
			dialog.ShowError(err, parent)
			return
		}
		a.history.Push(before)
		a.persistRegistry()
		onDone()
	}, parent)
}

func entryTexts(entries []*widget.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func (a *App) importRegistry(parent fyne.Window, onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		before := a.snapshot("Import Profiles")
		added, err := project.ImportRegistry(path, a.registry)
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		if len(added) > 0 {
			a.history.Push(before)
			a.persistRegistry()
		}
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d new profile(s). Existing names were kept.", len(added)), parent)
	}, parent)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) exportRegistry(parent fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.ExportRegistry(path, a.registry); err != nil {
			dialog.ShowError(err, parent)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Profiles saved to %s", path), parent)
	}, parent)
	d.SetFileName("profiles.json")
	d.Show()
}

// generateTemplate writes a DXF holding one layer per registered profile and type.
func (a *App) generateTemplate(parent fyne.Window) {
	if len(a.registry) == 0 {
		dialog.ShowError(project.ErrEmptyRegistry, parent)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		layers, err := project.GenerateTemplateDXF(path, a.registry)
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		a.logger.Info("template generated", "path", path, "layers", len(layers))
		dialog.ShowInformation("Template Created",
			fmt.Sprintf("%d layer(s) written to %s", len(layers), path), parent)
	}, parent)
	d.SetFileName("truss_template.dxf")
	d.Show()
}
