//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Command h5inspect prints the object tree of an HDF5 file: groups,
// datasets with their shape, type class and storage layout, and named
// datatypes.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/h5typed/hdf5"
)

var (
	app       = kingpin.New("h5inspect", "Inspect the object tree of an HDF5 file.")
	showAll   = app.Flag("all", "Include house-keeping entries.").Short('a').Bool()
	inputFile = app.Arg("file", "HDF5 file to inspect.").Required().ExistingFile()
	startPath = app.Arg("path", "Group to start at.").Default("/").String()
)

func main() {
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	ok, err := hdf5.IsHDF5(*inputFile)
	if err != nil {
		fatal(err)
	}
	if !ok {
		fatalf("%s is not an HDF5 file", *inputFile)
	}

	f, err := hdf5.Open(*inputFile)
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	major, minor, release, err := hdf5.LibraryVersion()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s (library %d.%d.%d)\n", *inputFile, major, minor, release)

	if err := printTree(f, *startPath, 0); err != nil {
		fatal(err)
	}
}

func printTree(f *hdf5.File, path string, depth int) error {
	kind, err := f.Kind(path)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	name := path
	if i := strings.LastIndex(strings.TrimSuffix(path, "/"), "/"); i >= 0 && path != "/" {
		name = path[i+1:]
	}
	switch kind {
	case hdf5.KindGroup:
		fmt.Printf("%s%s/\n", indent, strings.TrimSuffix(name, "/"))
		members, err := groupMembers(f, path)
		if err != nil {
			return err
		}
		for _, member := range members {
			if err := printTree(f, member, depth+1); err != nil {
				return err
			}
		}
	case hdf5.KindDataSet:
		info, err := f.DataSetInfo(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s%s  %s %s  %s elements, %s (%s)\n",
			indent, name, info.Class, dimsString(info),
			humanize.Comma(int64(info.Elements())), humanize.Bytes(info.Size()),
			info.Layout)
	case hdf5.KindDataType:
		fmt.Printf("%s%s  datatype\n", indent, name)
	default:
		fmt.Printf("%s%s\n", indent, name)
	}
	return nil
}

func groupMembers(f *hdf5.File, path string) ([]string, error) {
	if *showAll {
		names, err := f.AllMembers(path)
		if err != nil {
			return nil, err
		}
		prefix := strings.TrimSuffix(path, "/")
		paths := make([]string, len(names))
		for i, name := range names {
			paths[i] = prefix + "/" + name
		}
		return paths, nil
	}
	return f.GroupMemberPaths(path)
}

func dimsString(info *hdf5.DataSetInfo) string {
	if len(info.Dims) == 0 {
		return "scalar"
	}
	parts := make([]string, len(info.Dims))
	for i, d := range info.Dims {
		parts[i] = fmt.Sprintf("%d", d)
		if info.MaxDims[i] == hdf5.Unlimited {
			parts[i] += "+"
		}
	}
	return "[" + strings.Join(parts, "x") + "]"
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "h5inspect:", err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "h5inspect: "+format+"\n", args...)
	os.Exit(1)
}
