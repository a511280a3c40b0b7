package types

import "fmt"

// Mapping is a declared source to destination pair. Source is relative to
// the package install root and may contain glob wildcards; Dest is relative
// to the project root.
type Mapping struct {
	Source string `json:"source" yaml:"source"`
	Dest   string `json:"dest" yaml:"dest"`
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s -> %s", m.Source, m.Dest)
}
