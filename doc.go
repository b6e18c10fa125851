//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

/*
Package hdf5 is a typed Go wrapper for the HDF5 C library - the widely used format and engine for large, self-describing scientific data files.

The package requires minimum versions of Go 1.24 and HDF5 1.12. It uses CGo to interface between this Go wrapper and the HDF5 engine written in C.
Every read and write goes through a typed accessor obtained from a [File], so element types are checked at the API boundary instead of surfacing as cryptic native conversion failures.
Native handles opened during an operation are released in reverse order when the operation ends, whether it succeeds or fails.

# Example

	package main

	import "github.com/h5typed/hdf5"

	func main() {
		f, err := hdf5.Create("weather.h5")
		if err != nil {
			panic(err)
		}
		defer f.Close()

		f.Float64().WriteArray("/station/7/temperature", []float64{21.3, 22.1, 19.8})
		f.String().Write("/station/7/name", "Rooftop West")

		temps, _ := f.Float64().ReadArray("/station/7/temperature")
		name, _ := f.String().Read("/station/7/name")
		println(name, len(temps))
	}

Output:

	Rooftop West 3

# Prerequisites

[Install HDF5] with development headers; the package locates it through pkg-config. Consider reading the introduction to [the HDF5 data model].

[Install HDF5]: https://www.hdfgroup.org/downloads/hdf5/
[the HDF5 data model]: https://support.hdfgroup.org/documentation/hdf5/latest/_intro_h_d_f5.html
*/
package hdf5
