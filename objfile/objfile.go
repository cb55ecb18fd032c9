// This file is part of Thorin.
//
// Thorin is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thorin is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thorin.  If not, see <https://www.gnu.org/licenses/>.

// Package objfile is the object/DWARF loader (component A). It is a thin
// wrapper over the standard library's object-container readers
// (debug/elf, debug/macho) and their bundled DWARF decoder (debug/dwarf) —
// both treated as opaque, external libraries by the rest of this
// repository, exactly as spec'd: this package's only job is to find the
// four required DWARF sections and hand back a *dwarf.Data.
package objfile

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"fmt"
	"path/filepath"

	"github.com/jetsetilly/thorin/errors"
	"github.com/jetsetilly/thorin/logger"
)

// requiredSections are the DWARF sections this repository's program model
// builder depends on. Missing any of them is a fatal initialisation error.
var requiredSections = []string{"debug_info", "debug_abbrev", "debug_str", "debug_line"}

// File is the result of a successful load: a parsed DWARF tree, plus
// bookkeeping about where it came from.
type File struct {
	// ExecPath is the path of the executable that will be spawned.
	ExecPath string

	// DWARFPath is the file DWARF was actually read from: ExecPath on
	// Linux, the dSYM bundle's DWARF file on macOS.
	DWARFPath string

	// Data is the decoded DWARF tree, ready for the program model builder.
	Data *dwarf.Data
}

// Open loads the executable at execPath and locates its DWARF data,
// following the platform rule from spec §6: ELF binaries carry their own
// DWARF; Mach-O binaries keep it in a sibling .dSYM bundle.
func Open(execPath string) (*File, error) {
	if ef, err := elf.Open(execPath); err == nil {
		defer ef.Close()
		return fromELF(execPath, execPath, ef)
	}

	dsym := dSYMPath(execPath)
	mf, err := macho.Open(dsym)
	if err != nil {
		return nil, errors.Errorf("objfile: %s is neither a readable ELF executable nor does it have a companion dSYM bundle (%v)", execPath, err)
	}
	defer mf.Close()
	return fromMachO(execPath, dsym, mf)
}

// dSYMPath computes the path of the DWARF file inside execPath's companion
// .dSYM bundle, per spec §4.A.
func dSYMPath(execPath string) string {
	base := filepath.Base(execPath)
	return filepath.Join(execPath+".dSYM", "Contents", "Resources", "DWARF", base)
}

func fromELF(execPath, dwarfPath string, ef *elf.File) (*File, error) {
	for _, name := range requiredSections {
		if ef.Section("." + name) == nil {
			return nil, errors.Errorf("objfile: missing required DWARF section %s", "."+name)
		}
	}

	d, err := ef.DWARF()
	if err != nil {
		return nil, errors.Errorf("objfile: failed to parse DWARF data: %v", err)
	}

	logger.Logf(logger.Allow, "objfile", "loaded ELF DWARF data from %s", dwarfPath)

	return &File{ExecPath: execPath, DWARFPath: dwarfPath, Data: d}, nil
}

func fromMachO(execPath, dwarfPath string, mf *macho.File) (*File, error) {
	for _, name := range requiredSections {
		if mf.Section("__" + name) == nil {
			return nil, errors.Errorf("objfile: missing required DWARF section %s", "__"+name)
		}
	}

	d, err := mf.DWARF()
	if err != nil {
		return nil, errors.Errorf("objfile: failed to parse DWARF data: %v", err)
	}

	logger.Logf(logger.Allow, "objfile", "loaded Mach-O DWARF data from %s", dwarfPath)

	return &File{ExecPath: execPath, DWARFPath: dwarfPath, Data: d}, nil
}

// String describes the executable and the file its DWARF was read from,
// used by thorin.go when logging a successful load.
func (f *File) String() string {
	return fmt.Sprintf("%s (DWARF from %s)", f.ExecPath, f.DWARFPath)
}
