//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

package hdf5

import (
	"sort"
	"strings"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// ObjectKind classifies what a path resolves to.
type ObjectKind int

const (
	KindOther ObjectKind = iota
	KindGroup
	KindDataSet
	KindDataType
)

func (k ObjectKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDataSet:
		return "dataset"
	case KindDataType:
		return "datatype"
	}
	return "other"
}

// CreateGroup creates a group at path, creating missing intermediate
// groups along the way. Creating a group that already exists is an error.
func (f *File) CreateGroup(path string) error {
	return f.base.runOp(func(reg *registry) error {
		if err := f.base.checkWritable(); err != nil {
			return err
		}
		ok, err := f.base.exists(path)
		if err != nil {
			return err
		}
		if ok {
			return errorf(h5err.InvalidArgument, "an object already exists at path %q", path)
		}
		lcpl, err := f.base.linkCreationPlist(reg)
		if err != nil {
			return err
		}
		id, err := h5.CreateGroup(f.base.id, path, lcpl)
		if err != nil {
			return nativeError(h5err.Resource, err)
		}
		reg.group(id)
		return nil
	})
}

// Exists reports whether path resolves to any object.
func (f *File) Exists(path string) (bool, error) {
	return runOpValue(f.base, func(reg *registry) (bool, error) {
		return f.base.exists(path)
	})
}

// Kind returns what the object at path is. Missing paths fail with
// NotFound.
func (f *File) Kind(path string) (ObjectKind, error) {
	return runOpValue(f.base, func(reg *registry) (ObjectKind, error) {
		ok, err := f.base.exists(path)
		if err != nil {
			return KindOther, err
		}
		if !ok {
			return KindOther, errorf(h5err.NotFound, "no object at path %q", path)
		}
		kind, err := f.base.objectKind(path)
		if err != nil {
			return KindOther, err
		}
		switch kind {
		case h5.KindGroup:
			return KindGroup, nil
		case h5.KindDataset:
			return KindDataSet, nil
		case h5.KindDatatype:
			return KindDataType, nil
		}
		return KindOther, nil
	})
}

// IsGroup reports whether path resolves to a group.
func (f *File) IsGroup(path string) (bool, error) {
	kind, err := f.Kind(path)
	return kind == KindGroup, err
}

// IsDataSet reports whether path resolves to a dataset.
func (f *File) IsDataSet(path string) (bool, error) {
	kind, err := f.Kind(path)
	return kind == KindDataSet, err
}

// Delete removes the link at path. Deleting the last link to an object
// removes the object.
func (f *File) Delete(path string) error {
	return f.base.runOp(func(reg *registry) error {
		if err := f.base.checkWritable(); err != nil {
			return err
		}
		ok, err := f.base.exists(path)
		if err != nil {
			return err
		}
		if !ok {
			return errorf(h5err.NotFound, "no object at path %q", path)
		}
		if err := h5.DeleteLink(f.base.id, path); err != nil {
			return libError(err)
		}
		return nil
	})
}

// Members lists the member names of the group at path in sorted order,
// with house-keeping entries filtered out.
func (f *File) Members(path string) ([]string, error) {
	names, err := f.AllMembers(path)
	if err != nil {
		return nil, err
	}
	filtered := names[:0]
	for _, name := range names {
		if !f.base.isHouseKeeping(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}

// AllMembers lists the member names of the group at path in sorted order,
// house-keeping entries included.
func (f *File) AllMembers(path string) ([]string, error) {
	return runOpValue(f.base, func(reg *registry) ([]string, error) {
		ok, err := f.base.exists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errorf(h5err.NotFound, "no object at path %q", path)
		}
		kind, err := f.base.objectKind(path)
		if err != nil {
			return nil, err
		}
		if kind != h5.KindGroup {
			return nil, errorf(h5err.WrongType, "object at path %q is not a group", path)
		}
		group, err := h5.OpenGroup(f.base.id, path)
		if err != nil {
			return nil, nativeError(h5err.Resource, err)
		}
		reg.group(group)
		n, err := h5.GroupLinkCount(group)
		if err != nil {
			return nil, libError(err)
		}
		names := make([]string, 0, n)
		for i := 0; i < n; i++ {
			name, err := h5.LinkNameByIndex(f.base.id, path, i)
			if err != nil {
				return nil, libError(err)
			}
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	})
}

// GroupMemberPaths lists the full paths of the group's members, filtered
// like Members.
func (f *File) GroupMemberPaths(path string) ([]string, error) {
	names, err := f.Members(path)
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

// Walk visits the object at path and, when it is a group, every object
// reachable below it in depth-first pre-order. House-keeping entries are
// skipped, like Members. An error from visit stops the walk and is
// returned as-is.
func (f *File) Walk(path string, visit func(path string, kind ObjectKind) error) error {
	kind, err := f.Kind(path)
	if err != nil {
		return err
	}
	if err := visit(path, kind); err != nil {
		return err
	}
	if kind != KindGroup {
		return nil
	}
	members, err := f.GroupMemberPaths(path)
	if err != nil {
		return err
	}
	for _, member := range members {
		if err := f.Walk(member, visit); err != nil {
			return err
		}
	}
	return nil
}

// isHouseKeeping reports whether a link name is part of this binding's
// reserved in-file layout.
func (b *base) isHouseKeeping(name string) bool {
	if !strings.HasPrefix(name, "__") {
		return false
	}
	return strings.HasSuffix(name, "__"+b.suffix)
}
