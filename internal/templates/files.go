package templates

import "fmt"

// File names one manifest of a Rook release.
type File struct {
	// Name is the staged file name.
	Name string
	// Path is the location relative to the release's example directory.
	Path string
}

// Staged file names.
const (
	CRDs         = "crds.yaml"
	Common       = "common.yaml"
	Operator     = "operator.yaml"
	Cluster      = "cluster.yaml"
	StorageClass = "storageclass.yaml"
	Toolbox      = "toolbox.yaml"
)

// Files lists the manifests of a deployment in apply order.
var Files = []File{
	{Name: CRDs, Path: "crds.yaml"},
	{Name: Common, Path: "common.yaml"},
	{Name: Operator, Path: "operator.yaml"},
	{Name: Cluster, Path: "cluster.yaml"},
	{Name: StorageClass, Path: "csi/rbd/storageclass.yaml"},
	{Name: Toolbox, Path: "toolbox.yaml"},
}

// Lookup returns the file staged as name.
func Lookup(name string) (File, error) {
	for _, f := range Files {
		if f.Name == name {
			return f, nil
		}
	}
	return File{}, fmt.Errorf("unknown manifest %q", name)
}

// Manifest is the content of one file.
type Manifest struct {
	File
	Data []byte
}

// Bundle is the full manifest set of one release, in apply order.
type Bundle struct {
	Version   string
	Manifests []Manifest
}

// Get returns the content staged as name.
func (b *Bundle) Get(name string) ([]byte, bool) {
	for _, m := range b.Manifests {
		if m.Name == name {
			return m.Data, true
		}
	}
	return nil, false
}

// Set replaces the content staged as name. It reports false when the
// bundle has no such file.
func (b *Bundle) Set(name string, data []byte) bool {
	for i := range b.Manifests {
		if b.Manifests[i].Name == name {
			b.Manifests[i].Data = data
			return true
		}
	}
	return false
}
