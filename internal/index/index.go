// Package index interns unit names and dependency files into dense
// small integers so the engine can represent dependency sets as bitmaps.
// Indices are assigned on first sight, are stable for the life of a
// session, and are never released.
package index

import (
	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/util"
)

// UnitIndex is the interned form of a unit name.
type UnitIndex uint32

// FileIndex is the interned form of a dependency file.
type FileIndex uint32

// Registry interns the two identifier universes of a build session.
// Only the registry produces indices, so a lookup of an index it never
// returned cannot happen by construction; it panics if it does.
type Registry struct {
	unitIDs map[api.UnitName]UnitIndex
	units   []api.UnitName

	fileIDs map[api.DepFile]FileIndex
	files   []api.DepFile
}

func NewRegistry() *Registry {
	return &Registry{
		unitIDs: make(map[api.UnitName]UnitIndex),
		fileIDs: make(map[api.DepFile]FileIndex),
	}
}

// InternUnit returns the index for name, assigning the next free index
// if name has not been seen before.
func (r *Registry) InternUnit(name api.UnitName) UnitIndex {
	if id, ok := r.unitIDs[name]; ok {
		return id
	}
	id := UnitIndex(len(r.units))
	r.units = append(r.units, name)
	r.unitIDs[name] = id
	return id
}

// UnitName returns the name interned under id.
func (r *Registry) UnitName(id UnitIndex) api.UnitName {
	if int(id) >= len(r.units) {
		util.Panicf("unit index %d out of range (%d interned)", id, len(r.units))
	}
	return r.units[id]
}

// InternFile returns the index for file, assigning the next free index
// if file has not been seen before.
func (r *Registry) InternFile(file api.DepFile) FileIndex {
	if id, ok := r.fileIDs[file]; ok {
		return id
	}
	id := FileIndex(len(r.files))
	r.files = append(r.files, file)
	r.fileIDs[file] = id
	return id
}

// File returns the dependency file interned under id.
func (r *Registry) File(id FileIndex) api.DepFile {
	if int(id) >= len(r.files) {
		util.Panicf("file index %d out of range (%d interned)", id, len(r.files))
	}
	return r.files[id]
}

// NumUnits returns how many unit names have been interned.
func (r *Registry) NumUnits() int { return len(r.units) }

// NumFiles returns how many dependency files have been interned.
func (r *Registry) NumFiles() int { return len(r.files) }
