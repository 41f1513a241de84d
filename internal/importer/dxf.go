package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"
	"github.com/yofu/dxf/table"
)

// FailureKind classifies why a drawing could not be read.
type FailureKind int

const (
	NotFound FailureKind = iota + 1
	Unreadable
	Malformed
)

func (k FailureKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unreadable:
		return "unreadable"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound   = errors.New("drawing not found")
	ErrUnreadable = errors.New("drawing unreadable")
	ErrMalformed  = errors.New("drawing malformed")
)

// FileError reports an input file that could not be read. It matches exactly one
// of ErrNotFound, ErrUnreadable, or ErrMalformed with errors.Is.
type FileError struct {
	Path string
	Kind FailureKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrUnreadable:
		return e.Kind == Unreadable
	case ErrMalformed:
		return e.Kind == Malformed
	}
	return false
}

// layered is implemented by every yofu/dxf entity.
type layered interface {
	Layer() *table.Layer
}

// OpenDXF reads a DXF file and returns its entities in drawing order.
// LINE becomes a segment and LWPOLYLINE a polyline; everything else is
// returned with GeometryOther.
func OpenDXF(path string) ([]model.Entity, error) {
	// Surface I/O failures before the parser sees the file, so parse errors are
	// the only ones left for dxf.Open.
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	d, err := parseDXF(path)
	if err != nil {
		return nil, &FileError{Path: path, Kind: Malformed, Err: err}
	}

	var entities []model.Entity
	for _, ent := range d.Entities() {
		entities = append(entities, convertEntity(ent))
	}
	return entities, nil
}

// checkReadable reports a missing or unreadable input file as a *FileError.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileError{Path: path, Kind: NotFound, Err: err}
		}
		return &FileError{Path: path, Kind: Unreadable, Err: err}
	}
	if info.IsDir() {
		return &FileError{Path: path, Kind: Unreadable, Err: errors.New("is a directory")}
	}

	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Kind: Unreadable, Err: err}
	}
	return f.Close()
}

// parseDXF wraps dxf.Open, turning parser panics on corrupt input into errors.
func parseDXF(path string) (d *drawing.Drawing, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("corrupt drawing: %v", r)
		}
	}()
	return dxf.Open(path)
}

func convertEntity(ent entity.Entity) model.Entity {
	var out model.Entity
	if l, ok := ent.(layered); ok && l.Layer() != nil {
		out.Layer = l.Layer().Name()
		out.HasLayer = true
	}

	switch e := ent.(type) {
	case *entity.Line:
		out.Geometry = model.Segment(point(e.Start), point(e.End))

	case *entity.LwPolyline:
		// Bulges are ignored; arcs are measured along their chords.
		points := make([]model.Point2D, 0, len(e.Vertices))
		for _, v := range e.Vertices {
			points = append(points, point(v))
		}
		out.Geometry = model.Polyline(e.Closed, points...)

	default:
		out.Geometry = model.Geometry{Kind: model.GeometryOther}
	}
	return out
}

func point(v []float64) model.Point2D {
	var p model.Point2D
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// ExtractMembers classifies and measures entities, keeping only pieces on
// structural layers with positive length. Order follows the input.
func ExtractMembers(entities []model.Entity, source string) []model.Member {
	var members []model.Member
	for _, ent := range entities {
		if !ent.HasLayer {
			continue
		}
		mt, profile, ok := model.ClassifyLayer(ent.Layer)
		if !ok || !ent.Geometry.Measurable() {
			continue
		}
		length := ent.Geometry.Length()
		if length <= 0 {
			continue
		}
		members = append(members, model.Member{
			Type:    mt,
			Profile: profile,
			Length:  length,
			Source:  source,
		})
	}
	return members
}

// ExtractFile opens a drawing and extracts its members. Members are attributed
// to the file's base name. Errors are always *FileError.
func ExtractFile(path string) ([]model.Member, error) {
	entities, err := OpenDXF(path)
	if err != nil {
		return nil, err
	}
	return ExtractMembers(entities, filepath.Base(path)), nil
}
